// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	goahttp "goa.design/goa/v3/http"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/middleware"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/service"
)

// newHandler mounts the attendance endpoints on a goa muxer and wraps it with
// the HTTP middleware chain.
func newHandler(authService *service.AuthService, attendanceService *service.AttendanceService) http.Handler {
	mux := goahttp.NewMuxer()
	svc := NewAttendanceAPI(authService, attendanceService, mux.Vars)

	mux.Handle(http.MethodGet, "/livez", svc.Livez)
	mux.Handle(http.MethodGet, "/readyz", svc.Readyz)
	mux.Handle(http.MethodGet, "/forms", svc.secured(http.StatusOK, svc.ListForms))
	mux.Handle(http.MethodGet, "/migrations", svc.secured(http.StatusOK, svc.ListMigrations))
	mux.Handle(http.MethodGet, "/forms/{form_id}/status", svc.secured(http.StatusOK, svc.GetFormStatus))
	mux.Handle(http.MethodGet, "/forms/{form_id}/responses", svc.secured(http.StatusOK, svc.GetFormResponses))
	mux.Handle(http.MethodGet, "/forms/{form_id}/summary", svc.secured(http.StatusOK, svc.GetFormSummary))
	mux.Handle(http.MethodGet, "/forms/{form_id}/migration", svc.secured(http.StatusOK, svc.GetFormMigration))
	mux.Handle(http.MethodPost, "/forms/{form_id}/close", svc.secured(http.StatusOK, svc.CloseForm))

	var handler http.Handler = mux

	// Middleware runs in reverse order of wrapping: the request id is set
	// first, the logger sees it, then the authorization header is captured.
	handler = middleware.AuthorizationMiddleware()(handler)
	handler = middleware.RequestLoggerMiddleware()(handler)
	handler = middleware.RequestIDMiddleware()(handler)
	handler = otelhttp.NewHandler(handler, "attendance-api")

	return handler
}

// setupHTTPServer configures and starts the HTTP server
func setupHTTPServer(flags flags, handler http.Handler, gracefulCloseWG *sync.WaitGroup) *http.Server {
	var addr string
	if flags.Bind == "*" {
		addr = ":" + flags.Port
	} else {
		addr = flags.Bind + ":" + flags.Port
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 3 * time.Second,
	}
	gracefulCloseWG.Add(1)
	go func() {
		slog.With("addr", addr).Debug("starting http server, listening on port " + flags.Port)
		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			slog.With(logging.ErrKey, err).Error("http listener error")
			os.Exit(1)
		}
		// ErrServerClosed returns as soon as Shutdown starts, so the wait
		// group is released by gracefulShutdown instead.
	}()

	return httpServer
}
