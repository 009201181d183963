// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/infrastructure/messaging"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/logging"
)

const gracefulShutdownSeconds = 25

// setupNATS connects to NATS. When reconnects are exhausted outside of a
// graceful shutdown, a synthetic interrupt is sent on done and the process exits.
func setupNATS(ctx context.Context, env environment, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) (*nats.Conn, error) {
	gracefulCloseWG.Add(1)
	natsConn, err := nats.Connect(
		env.NatsURL,
		nats.Name("lfx-v2-meeting-attendance-service"),
		nats.Timeout(env.NatsTimeout),
		nats.MaxReconnects(env.NatsMaxReconnect),
		nats.ReconnectWait(env.NatsReconnectWait),
		nats.DrainTimeout(gracefulShutdownSeconds*time.Second),
		nats.ErrorHandler(func(_ *nats.Conn, s *nats.Subscription, err error) {
			if s != nil {
				slog.With(logging.ErrKey, err, "subject", s.Subject, "queue", s.Queue).Error("async NATS error")
			} else {
				slog.With(logging.ErrKey, err).Error("async NATS error outside subscription")
			}
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if ctx.Err() != nil {
				// Graceful shutdown in progress.
				gracefulCloseWG.Done()
				return
			}
			slog.Error("NATS max-reconnects exhausted; connection closed", logging.PriorityCritical())
			done <- os.Interrupt
			time.Sleep(5 * time.Second)
			os.Exit(1)
		}),
	)
	if err != nil {
		gracefulCloseWG.Done()
		slog.With(logging.ErrKey, err, "nats_url", env.NatsURL).Error("error creating NATS client")
		return nil, err
	}
	return natsConn, nil
}

// createNatsSubscriptions subscribes the handler to every attendance subject
// on the shared queue group.
func createNatsSubscriptions(ctx context.Context, handler domain.MessageHandler, natsConn *nats.Conn) error {
	subjects := []string{
		models.AttendanceSummarySubject,
		models.AttendanceStatusSubject,
		models.AttendanceResponsesSubject,
	}

	dispatch := messaging.Dispatcher(ctx, handler)
	for _, subject := range subjects {
		if _, err := natsConn.QueueSubscribe(subject, models.AttendanceAPIQueue, dispatch); err != nil {
			slog.ErrorContext(ctx, "error subscribing to NATS subject", logging.ErrKey, err, "subject", subject)
			return err
		}
		slog.DebugContext(ctx, "subscribed to NATS subject", "subject", subject, "queue", models.AttendanceAPIQueue)
	}
	return nil
}

// gracefulShutdown stops the HTTP server, drains NATS and flushes telemetry.
func gracefulShutdown(httpServer *http.Server, natsConn *nats.Conn, otelShutdown func(context.Context) error, gracefulCloseWG *sync.WaitGroup, cancel context.CancelFunc) {
	slog.Info("graceful shutdown started")

	// Cancelling the parent context lets the NATS closed handler tell a
	// shutdown apart from a lost connection.
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownSeconds*time.Second)
	defer shutdownCancel()

	go func() {
		if err := httpServer.Shutdown(ctx); err != nil {
			slog.With(logging.ErrKey, err).Error("http shutdown error")
		}
		gracefulCloseWG.Done()
	}()

	if natsConn != nil && !natsConn.IsClosed() && !natsConn.IsDraining() {
		slog.Info("draining NATS connections")
		if err := natsConn.Drain(); err != nil {
			slog.With(logging.ErrKey, err).Error("error draining NATS connection")
		}
	}

	gracefulCloseWG.Wait()

	if otelShutdown != nil {
		if err := otelShutdown(ctx); err != nil {
			slog.With(logging.ErrKey, err).Error("error shutting down telemetry")
		}
	}

	slog.Info("graceful shutdown complete")
}
