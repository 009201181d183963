// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package messaging adapts NATS messages to the domain messaging interfaces.
package messaging

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/logging"
)

// INatsMsg is the subset of [nats.Msg] the service relies on.
type INatsMsg interface {
	Respond(data []byte) error
}

// NatsMessage wraps a NATS message so it satisfies [domain.Message].
type NatsMessage struct {
	msg     INatsMsg
	subject string
	reply   string
	data    []byte
}

var _ domain.Message = (*NatsMessage)(nil)

// NewNatsMessage creates a new NatsMessage from a received NATS message.
func NewNatsMessage(msg *nats.Msg) *NatsMessage {
	return &NatsMessage{
		msg:     msg,
		subject: msg.Subject,
		reply:   msg.Reply,
		data:    msg.Data,
	}
}

func (m *NatsMessage) Subject() string {
	return m.subject
}

func (m *NatsMessage) Data() []byte {
	return m.data
}

func (m *NatsMessage) HasReply() bool {
	return m.reply != ""
}

func (m *NatsMessage) Respond(data []byte) error {
	return m.msg.Respond(data)
}

// Dispatcher returns a [nats.MsgHandler] that hands every message to handler.
// Messages are dropped with a warning while the handler is not ready.
func Dispatcher(ctx context.Context, handler domain.MessageHandler) nats.MsgHandler {
	return func(msg *nats.Msg) {
		message := NewNatsMessage(msg)
		if !handler.HandlerReady() {
			slog.WarnContext(ctx, "handler not ready, dropping NATS message", "subject", message.Subject())
			if message.HasReply() {
				if err := message.Respond(nil); err != nil {
					slog.ErrorContext(ctx, "error responding to NATS message", logging.ErrKey, err)
				}
			}
			return
		}
		handler.HandleMessage(ctx, message)
	}
}
