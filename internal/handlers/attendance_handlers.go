// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package handlers answers attendance requests received over NATS.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/service"
)

// AttendanceHandler handles attendance request/reply messages.
type AttendanceHandler struct {
	attendanceService *service.AttendanceService
}

var _ domain.MessageHandler = (*AttendanceHandler)(nil)

func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
	}
}

func (h *AttendanceHandler) HandlerReady() bool {
	return h.attendanceService != nil && h.attendanceService.ServiceReady()
}

// HandleMessage implements domain.MessageHandler interface
func (h *AttendanceHandler) HandleMessage(ctx context.Context, msg domain.Message) {
	subject := msg.Subject()
	ctx = logging.AppendCtx(ctx, slog.String("subject", subject))
	slog.DebugContext(ctx, "handling NATS message")

	handlers := map[string]func(ctx context.Context, msg domain.Message) ([]byte, error){
		models.AttendanceSummarySubject:   h.HandleGetSummary,
		models.AttendanceStatusSubject:    h.HandleGetStatus,
		models.AttendanceResponsesSubject: h.HandleGetResponses,
	}

	handler, ok := handlers[subject]
	if !ok {
		slog.WarnContext(ctx, "unknown subject")
		respond(ctx, msg, nil)
		return
	}

	response, err := handler(ctx, msg)
	if err != nil {
		slog.ErrorContext(ctx, "error handling message", logging.ErrKey, err)
		respond(ctx, msg, errorReply(err))
		return
	}

	respond(ctx, msg, response)
}

// HandleGetSummary replies with the attendance summary of the form named in the payload.
func (h *AttendanceHandler) HandleGetSummary(ctx context.Context, msg domain.Message) ([]byte, error) {
	formID, err := formIDFromMessage(msg)
	if err != nil {
		return nil, err
	}

	summary, err := h.attendanceService.GetSummary(ctx, formID)
	if err != nil {
		return nil, err
	}
	return json.Marshal(summary)
}

// HandleGetStatus replies with the state of the form named in the payload.
func (h *AttendanceHandler) HandleGetStatus(ctx context.Context, msg domain.Message) ([]byte, error) {
	formID, err := formIDFromMessage(msg)
	if err != nil {
		return nil, err
	}

	state, err := h.attendanceService.GetStatus(ctx, formID)
	if err != nil {
		return nil, err
	}
	return json.Marshal(state)
}

// HandleGetResponses replies with the normalized responses of the form named in the payload.
func (h *AttendanceHandler) HandleGetResponses(ctx context.Context, msg domain.Message) ([]byte, error) {
	formID, err := formIDFromMessage(msg)
	if err != nil {
		return nil, err
	}

	records, err := h.attendanceService.GetResponses(ctx, formID)
	if err != nil {
		return nil, err
	}
	return json.Marshal(records)
}

func formIDFromMessage(msg domain.Message) (string, error) {
	formID := strings.TrimSpace(string(msg.Data()))
	if formID == "" {
		return "", domain.NewValidationError("form id is required")
	}
	return formID, nil
}

func errorReply(err error) []byte {
	data, marshalErr := json.Marshal(models.ErrorReply{Error: err.Error()})
	if marshalErr != nil {
		return nil
	}
	return data
}

func respond(ctx context.Context, msg domain.Message, data []byte) {
	if !msg.HasReply() {
		slog.DebugContext(ctx, "handled NATS message (no reply expected)")
		return
	}
	if err := msg.Respond(data); err != nil {
		slog.ErrorContext(ctx, "error responding to NATS message", logging.ErrKey, err)
		return
	}
	slog.DebugContext(ctx, "responded to NATS message", "response_size", len(data))
}
