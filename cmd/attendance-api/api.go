// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	goahttp "goa.design/goa/v3/http"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/pkg/constants"
)

// formIDVar is the path variable naming the form.
const formIDVar = "form_id"

// AttendanceAPI serves the attendance HTTP endpoints.
type AttendanceAPI struct {
	authService       *service.AuthService
	attendanceService *service.AttendanceService
	vars              func(*http.Request) map[string]string
}

// NewAttendanceAPI creates a new AttendanceAPI. vars resolves path variables
// of the muxer the API is mounted on.
func NewAttendanceAPI(authService *service.AuthService, attendanceService *service.AttendanceService, vars func(*http.Request) map[string]string) *AttendanceAPI {
	return &AttendanceAPI{
		authService:       authService,
		attendanceService: attendanceService,
		vars:              vars,
	}
}

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// createResponse maps an error to its HTTP status code and body.
func createResponse(err error) (int, *ErrorBody) {
	var code int
	switch domain.GetErrorType(err) {
	case domain.ErrorTypeValidation:
		code = http.StatusBadRequest
	case domain.ErrorTypeUnauthorized:
		code = http.StatusUnauthorized
	case domain.ErrorTypeNotFound:
		code = http.StatusNotFound
	case domain.ErrorTypeConflict:
		code = http.StatusConflict
	case domain.ErrorTypeUnavailable:
		code = http.StatusServiceUnavailable
	default:
		code = http.StatusInternalServerError
	}
	return code, &ErrorBody{
		Code:    strconv.Itoa(code),
		Message: err.Error(),
	}
}

func (s *AttendanceAPI) encode(ctx context.Context, w http.ResponseWriter, code int, v any) {
	encoder := goahttp.ResponseEncoder(ctx, w)
	w.WriteHeader(code)
	if err := encoder.Encode(v); err != nil {
		slog.ErrorContext(ctx, "error encoding response", logging.ErrKey, err)
	}
}

func (s *AttendanceAPI) encodeError(ctx context.Context, w http.ResponseWriter, err error) {
	code, body := createResponse(err)
	if code >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "request failed", logging.ErrKey, err, "status", code)
	} else {
		slog.WarnContext(ctx, "request rejected", logging.ErrKey, err, "status", code)
	}
	s.encode(ctx, w, code, body)
}

// Readyz checks if the service is able to take inbound requests.
func (s *AttendanceAPI) Readyz(w http.ResponseWriter, r *http.Request) {
	if !s.authService.ServiceReady() || !s.attendanceService.ServiceReady() {
		s.encodeError(r.Context(), w, domain.ErrServiceUnavailable)
		return
	}
	_, _ = w.Write([]byte("OK\n"))
}

// Livez checks if the service is alive.
func (s *AttendanceAPI) Livez(w http.ResponseWriter, _ *http.Request) {
	// Kubernetes liveness: answers as long as the process runs.
	_, _ = w.Write([]byte("OK\n"))
}

// JWTAuth validates the bearer token stored by the authorization middleware
// and returns a context carrying the principal.
func (s *AttendanceAPI) JWTAuth(ctx context.Context) (context.Context, error) {
	if !s.authService.ServiceReady() {
		return ctx, domain.ErrServiceUnavailable
	}

	bearerToken, _ := ctx.Value(constants.AuthorizationContextID).(string)
	if bearerToken == "" {
		return ctx, domain.ErrUnauthorized
	}

	principal, err := s.authService.ParsePrincipal(ctx, bearerToken, slog.Default())
	if err != nil {
		return ctx, err
	}
	ctx = logging.AppendCtx(ctx, slog.String("principal", principal))
	return context.WithValue(ctx, constants.PrincipalContextID, principal), nil
}

// secured wraps an operation with JWT authentication. op returns the value to
// encode with the given success code.
func (s *AttendanceAPI) secured(code int, op func(ctx context.Context, r *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, err := s.JWTAuth(r.Context())
		if err != nil {
			s.encodeError(r.Context(), w, err)
			return
		}

		result, err := op(ctx, r)
		if err != nil {
			s.encodeError(ctx, w, err)
			return
		}
		s.encode(ctx, w, code, result)
	}
}

func (s *AttendanceAPI) formID(r *http.Request) (string, error) {
	formID := s.vars(r)[formIDVar]
	if formID == "" {
		return "", domain.NewValidationError("form id is required")
	}
	return formID, nil
}

// ListForms returns the catalog of attendance forms.
func (s *AttendanceAPI) ListForms(ctx context.Context, _ *http.Request) (any, error) {
	return s.attendanceService.GetCatalog(ctx)
}

// GetFormStatus returns the state of one form.
func (s *AttendanceAPI) GetFormStatus(ctx context.Context, r *http.Request) (any, error) {
	formID, err := s.formID(r)
	if err != nil {
		return nil, err
	}
	return s.attendanceService.GetStatus(ctx, formID)
}

// GetFormResponses returns the normalized responses of one form.
func (s *AttendanceAPI) GetFormResponses(ctx context.Context, r *http.Request) (any, error) {
	formID, err := s.formID(r)
	if err != nil {
		return nil, err
	}
	return s.attendanceService.GetResponses(ctx, formID)
}

// GetFormSummary returns the attendance summary of one form.
func (s *AttendanceAPI) GetFormSummary(ctx context.Context, r *http.Request) (any, error) {
	formID, err := s.formID(r)
	if err != nil {
		return nil, err
	}
	return s.attendanceService.GetSummary(ctx, formID)
}

// CloseForm stops a form from accepting responses.
func (s *AttendanceAPI) CloseForm(ctx context.Context, r *http.Request) (any, error) {
	formID, err := s.formID(r)
	if err != nil {
		return nil, err
	}
	return s.attendanceService.Close(ctx, formID)
}

// ListMigrations returns every recorded migration.
func (s *AttendanceAPI) ListMigrations(ctx context.Context, _ *http.Request) (any, error) {
	return s.attendanceService.ListMigrations(ctx)
}

// GetFormMigration returns the last recorded migration of one form.
func (s *AttendanceAPI) GetFormMigration(ctx context.Context, r *http.Request) (any, error) {
	formID, err := s.formID(r)
	if err != nil {
		return nil, err
	}
	return s.attendanceService.GetMigration(ctx, formID)
}
