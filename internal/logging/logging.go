// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package logging contains the logging functionality for the attendance service.
package logging

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"

	slogotel "github.com/remychantenay/slog-otel"
)

type ctxKey string

// Public constants
const (
	ErrKey = "error"
)

// Private constants
const (
	slogFields      ctxKey = "slog_fields"
	logLevelDefault        = slog.LevelDebug

	// Log levels
	debug = "debug"
	warn  = "warn"
	err   = "error"
	info  = "info"

	// Log field for errors that must be escalated to the team.
	priorityCritical = "critical"
)

type contextHandler struct {
	slog.Handler
}

// Handle adds contextual attributes to the Record before calling the underlying handler
func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogFields).([]slog.Attr); ok {
		for _, v := range attrs {
			r.AddAttrs(v)
		}
	}

	return h.Handler.Handle(ctx, r)
}

// AppendCtx adds an slog attribute to the provided context so that it will be
// included in any Record created with such context
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}

	if v, ok := parent.Value(slogFields).([]slog.Attr); ok {
		// Copy so sibling contexts never share a backing array.
		attrs := make([]slog.Attr, len(v), len(v)+1)
		copy(attrs, v)
		return context.WithValue(parent, slogFields, append(attrs, attr))
	}

	return context.WithValue(parent, slogFields, []slog.Attr{attr})
}

// handlerOptions reads LOG_LEVEL and LOG_ADD_SOURCE.
func handlerOptions() *slog.HandlerOptions {
	logOptions := &slog.HandlerOptions{}

	switch os.Getenv("LOG_LEVEL") {
	case debug:
		logOptions.Level = slog.LevelDebug
	case warn:
		logOptions.Level = slog.LevelWarn
	case err:
		logOptions.Level = slog.LevelError
	case info:
		logOptions.Level = slog.LevelInfo
	default:
		logOptions.Level = logLevelDefault
	}

	addSource := os.Getenv("LOG_ADD_SOURCE")
	logOptions.AddSource = addSource == "true" || addSource == "t" || addSource == "1"

	return logOptions
}

// newHandler builds the JSON handler chain: context attributes, then trace
// correlation, then JSON output to w.
func newHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	h := slog.NewJSONHandler(w, opts)
	return contextHandler{slogotel.OtelHandler{Next: h}}
}

// InitStructureLogConfig sets the structured log behavior, writing to stdout.
func InitStructureLogConfig() slog.Handler {
	return InitStructureLogConfigWriter(os.Stdout)
}

// InitStructureLogConfigWriter sets the structured log behavior, writing to w.
func InitStructureLogConfigWriter(w io.Writer) slog.Handler {
	logOptions := handlerOptions()

	h := newHandler(w, logOptions)
	log.SetFlags(log.Llongfile)
	slog.SetDefault(slog.New(h))

	slog.Info("log config",
		"logLevel", logOptions.Level,
		"addSource", logOptions.AddSource,
	)

	return h
}

// Priority creates a slog.Attr for error priority classification
func Priority(level string) slog.Attr {
	return slog.String("priority", level)
}

// PriorityCritical creates a slog.Attr for critical errors
// this is used to identify critical errors in the logs
// the ones that should be escalated to the team
func PriorityCritical() slog.Attr {
	return Priority(priorityCritical)
}
