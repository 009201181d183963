// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	formsapi "google.golang.org/api/forms/v1"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain"
)

func TestFormsClient_GetForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/forms/form-1", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"formId": "form-1",
			"info": {"title": "[出欠管理] 定例会", "documentTitle": "定例会"},
			"responderUri": "https://docs.google.com/forms/d/e/abc/viewform",
			"items": [
				{"itemId": "i1", "title": "所属", "questionItem": {"question": {"questionId": "q1"}}},
				{"itemId": "i2", "title": "Section header"},
				{"itemId": "i3", "title": "出席者氏名（1）", "questionItem": {"question": {"questionId": "q2"}}}
			]
		}`))
	}))
	defer server.Close()

	client := NewFormsClient(newTestClient(t, server))
	doc, err := client.GetForm(context.Background(), "form-1")
	require.NoError(t, err)

	assert.Equal(t, "form-1", doc.ID)
	assert.Equal(t, "[出欠管理] 定例会", doc.Title)
	assert.Equal(t, "定例会", doc.DocumentTitle)
	assert.Equal(t, "https://docs.google.com/forms/d/e/abc/viewform", doc.ResponderURL)
	require.Len(t, doc.Fields, 2)
	assert.Equal(t, "q1", doc.Fields[0].ID)
	assert.Equal(t, "所属", doc.Fields[0].Title)
	assert.Equal(t, "q2", doc.Fields[1].ID)
}

func TestFormsClient_GetForm_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Requested entity was not found.","status":"NOT_FOUND"}}`))
	}))
	defer server.Close()

	client := NewFormsClient(newTestClient(t, server))
	_, err := client.GetForm(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
}

func TestFormsClient_ListResponses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forms/form-1/responses", r.URL.Path)
		assert.Equal(t, "5000", r.URL.Query().Get("pageSize"))
		assert.Equal(t, "tok-1", r.URL.Query().Get("pageToken"))
		_, _ = w.Write([]byte(`{
			"responses": [
				{
					"responseId": "r1",
					"createTime": "2024-05-01T10:00:00Z",
					"lastSubmittedTime": "2024-05-02T10:00:00Z",
					"answers": {
						"q1": {"questionId": "q1", "textAnswers": {"answers": [{"value": "出席"}, {"value": "ignored"}]}},
						"q2": {"questionId": "q2", "textAnswers": {"answers": []}}
					}
				},
				{"responseId": "r2", "createTime": "2024-05-03T10:00:00Z"}
			],
			"nextPageToken": "tok-2"
		}`))
	}))
	defer server.Close()

	client := NewFormsClient(newTestClient(t, server))
	page, err := client.ListResponses(context.Background(), "form-1", "tok-1")
	require.NoError(t, err)

	assert.Equal(t, "tok-2", page.NextPageToken)
	require.Len(t, page.Responses, 2)

	first := page.Responses[0]
	assert.Equal(t, "r1", first.ID)
	assert.Equal(t, time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC), first.SubmittedAt.UTC())
	assert.Equal(t, map[string]string{"q1": "出席"}, first.Answers)

	second := page.Responses[1]
	assert.Equal(t, time.Date(2024, 5, 3, 10, 0, 0, 0, time.UTC), second.SubmittedAt.UTC())
	assert.Empty(t, second.Answers)
}

func TestFormsClient_UpdateTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/forms/form-1:batchUpdate", r.URL.Path)

		var req formsapi.BatchUpdateFormRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Requests, 1)
		require.NotNil(t, req.Requests[0].UpdateFormInfo)
		require.NotNil(t, req.Requests[0].UpdateFormInfo.Info)
		assert.Equal(t, "定例会", req.Requests[0].UpdateFormInfo.Info.Title)
		assert.Equal(t, "title", req.Requests[0].UpdateFormInfo.UpdateMask)

		_, _ = w.Write([]byte(`{"replies":[{}]}`))
	}))
	defer server.Close()

	client := NewFormsClient(newTestClient(t, server))
	require.NoError(t, client.UpdateTitle(context.Background(), "form-1", "定例会"))
}
