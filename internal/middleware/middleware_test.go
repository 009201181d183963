// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/pkg/constants"
)

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		inbound  string
		generate bool
	}{
		{name: "reuses inbound id", inbound: "req-123"},
		{name: "generates id", generate: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ctxID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctxID, _ = r.Context().Value(constants.RequestIDContextID).(string)
			})

			req := httptest.NewRequest(http.MethodGet, "/forms", nil)
			if tt.inbound != "" {
				req.Header.Set(constants.RequestIDHeader, tt.inbound)
			}
			rec := httptest.NewRecorder()

			RequestIDMiddleware()(next).ServeHTTP(rec, req)

			headerID := rec.Header().Get(constants.RequestIDHeader)
			assert.Equal(t, headerID, ctxID)
			if tt.generate {
				_, err := uuid.Parse(headerID)
				require.NoError(t, err)
			} else {
				assert.Equal(t, tt.inbound, headerID)
			}
		})
	}
}

func TestAuthorizationMiddleware(t *testing.T) {
	t.Run("header copied to context", func(t *testing.T) {
		var got string
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = r.Context().Value(constants.AuthorizationContextID).(string)
		})

		req := httptest.NewRequest(http.MethodGet, "/forms", nil)
		req.Header.Set("Authorization", "Bearer abc")
		AuthorizationMiddleware()(next).ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "Bearer abc", got)
	})

	t.Run("missing header leaves context empty", func(t *testing.T) {
		var present bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, present = r.Context().Value(constants.AuthorizationContextID).(string)
		})

		req := httptest.NewRequest(http.MethodGet, "/forms", nil)
		AuthorizationMiddleware()(next).ServeHTTP(httptest.NewRecorder(), req)

		assert.False(t, present)
	})
}

func TestRequestLoggerMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		status     int
		wantStatus int
	}{
		{name: "captures explicit status", path: "/forms/form-1/status", status: http.StatusNotFound, wantStatus: http.StatusNotFound},
		{name: "defaults to ok", path: "/forms", wantStatus: http.StatusOK},
		{name: "health check", path: "/livez", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				_, _ = w.Write([]byte("OK"))
			})

			rec := httptest.NewRecorder()
			RequestLoggerMiddleware()(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "OK", rec.Body.String())
		})
	}
}
