// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package main is the attendance service API that serves attendance forms over
// HTTP and answers attendance requests over NATS.
package main

import (
	"context"
	_ "expvar"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/handlers"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/pkg/utils"
)

func main() {
	env := parseEnv()
	flags := parseFlags(env.Port)

	logging.InitStructureLogConfig()

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	gracefulCloseWG := sync.WaitGroup{}

	otelShutdown, err := utils.SetupOTelSDK(ctx)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up OpenTelemetry SDK")
		os.Exit(1)
	}

	// Set up JWT validator needed by the [AttendanceAPI.JWTAuth] security handler.
	jwtAuth, err := setupJWTAuth()
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up JWT authentication")
		os.Exit(1)
	}

	formsClient, driveClient, err := setupGoogleClients(ctx, env)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up Google API clients")
		os.Exit(1)
	}

	natsConn, err := setupNATS(ctx, env, &gracefulCloseWG, done)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up NATS")
		return
	}

	ledger, err := getMigrationLedger(ctx, env, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error getting migration ledger")
		return
	}

	serviceConfig := service.ServiceConfig{
		MigrationBatchSize: env.MigrationBatchSize,
	}
	authService := service.NewAuthService(jwtAuth)
	attendanceService := service.NewAttendanceService(formsClient, driveClient, ledger, serviceConfig)

	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)

	httpServer := setupHTTPServer(flags, newHandler(authService, attendanceService), &gracefulCloseWG)

	err = createNatsSubscriptions(ctx, attendanceHandler, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error creating NATS subscriptions")
		return
	}

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	gracefulShutdown(httpServer, natsConn, otelShutdown, &gracefulCloseWG, cancel)
}
