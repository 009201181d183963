// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package google

import (
	"context"
	"time"

	formsapi "google.golang.org/api/forms/v1"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain/models"
)

// ResponsesPageSize is the largest page the Forms API returns.
const ResponsesPageSize = 5000

// FormsClient implements domain.FormsClient.
type FormsClient struct {
	*Client
}

var _ domain.FormsClient = (*FormsClient)(nil)

// NewFormsClient returns a forms client sharing the given transport.
func NewFormsClient(client *Client) *FormsClient {
	return &FormsClient{Client: client}
}

// GetForm retrieves the form with its question items.
func (c *FormsClient) GetForm(ctx context.Context, formID string) (*models.FormDocument, error) {
	var form *formsapi.Form
	err := c.do(ctx, "forms.get", func(ctx context.Context) error {
		var err error
		form, err = c.forms.Forms.Get(formID).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, err
	}

	doc := &models.FormDocument{
		ID:           form.FormId,
		ResponderURL: form.ResponderUri,
		Fields:       make([]models.FieldDefinition, 0, len(form.Items)),
	}
	if doc.ID == "" {
		doc.ID = formID
	}
	if form.Info != nil {
		doc.Title = form.Info.Title
		doc.DocumentTitle = form.Info.DocumentTitle
	}
	for _, item := range form.Items {
		// Only single-question items carry answers keyed by question id.
		if item == nil || item.QuestionItem == nil || item.QuestionItem.Question == nil {
			continue
		}
		doc.Fields = append(doc.Fields, models.FieldDefinition{
			ID:    item.QuestionItem.Question.QuestionId,
			Title: item.Title,
		})
	}
	return doc, nil
}

// ListResponses retrieves one page of form responses.
func (c *FormsClient) ListResponses(ctx context.Context, formID, pageToken string) (*models.ResponsePage, error) {
	var list *formsapi.ListFormResponsesResponse
	err := c.do(ctx, "forms.responses.list", func(ctx context.Context) error {
		call := c.forms.Forms.Responses.List(formID).PageSize(ResponsesPageSize).Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		var err error
		list, err = call.Do()
		return err
	})
	if err != nil {
		return nil, err
	}

	page := &models.ResponsePage{
		Responses:     make([]models.RawResponse, 0, len(list.Responses)),
		NextPageToken: list.NextPageToken,
	}
	for _, r := range list.Responses {
		if r == nil {
			continue
		}
		submitted := parseTime(r.LastSubmittedTime)
		if submitted.IsZero() {
			submitted = parseTime(r.CreateTime)
		}
		answers := make(map[string]string, len(r.Answers))
		for id, a := range r.Answers {
			if a.TextAnswers == nil || len(a.TextAnswers.Answers) == 0 || a.TextAnswers.Answers[0] == nil {
				continue
			}
			answers[id] = a.TextAnswers.Answers[0].Value
		}
		page.Responses = append(page.Responses, models.RawResponse{
			ID:          r.ResponseId,
			SubmittedAt: submitted,
			Answers:     answers,
		})
	}
	return page, nil
}

// UpdateTitle sets the title stored in the form document.
func (c *FormsClient) UpdateTitle(ctx context.Context, formID, title string) error {
	req := &formsapi.BatchUpdateFormRequest{
		Requests: []*formsapi.Request{{
			UpdateFormInfo: &formsapi.UpdateFormInfoRequest{
				Info:       &formsapi.Info{Title: title},
				UpdateMask: "title",
			},
		}},
	}
	return c.do(ctx, "forms.batchUpdate", func(ctx context.Context) error {
		_, err := c.forms.Forms.BatchUpdate(formID, req).Context(ctx).Do()
		return err
	})
}

// parseTime reads an RFC 3339 timestamp. Missing or malformed values are zero.
func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
