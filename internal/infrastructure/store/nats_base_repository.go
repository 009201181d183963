// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/vmihailenco/msgpack/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/logging"
)

// NATS Key-Value store bucket names
const (
	KVStoreNameMigrations = "attendance-form-migrations"
)

// tracerName is the instrumentation name for the store package.
const tracerName = "github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/infrastructure/store"

// INatsKeyValue is the subset of jetstream.KeyValue used by the repositories.
type INatsKeyValue interface {
	ListKeys(context.Context, ...jetstream.WatchOpt) (jetstream.KeyLister, error)
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
	Put(context.Context, string, []byte) (uint64, error)
}

// NatsBaseRepository provides msgpack encoded entity storage on a NATS KV bucket.
type NatsBaseRepository[T any] struct {
	kvStore    INatsKeyValue
	entityName string // Used in error messages (e.g., "migration")
}

// NewNatsBaseRepository creates a new base repository for NATS KV operations
func NewNatsBaseRepository[T any](kvStore INatsKeyValue, entityName string) *NatsBaseRepository[T] {
	return &NatsBaseRepository[T]{
		kvStore:    kvStore,
		entityName: entityName,
	}
}

// IsReady checks if the repository is ready for use
func (r *NatsBaseRepository[T]) IsReady() bool {
	return r.kvStore != nil
}

func (r *NatsBaseRepository[T]) startSpan(ctx context.Context, operation, key string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("db.system", "nats"),
		attribute.String("db.operation", operation),
		attribute.String("db.nats.entity", r.entityName),
	}
	if key != "" {
		attrs = append(attrs, attribute.String("db.nats.key", key))
	}
	return otel.Tracer(tracerName).Start(ctx, "nats.kv."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

func failSpan(span trace.Span, err error, status string) error {
	span.RecordError(err)
	if status == "" {
		status = err.Error()
	}
	span.SetStatus(codes.Error, status)
	return err
}

// Get retrieves and decodes an entity from the NATS KV store
func (r *NatsBaseRepository[T]) Get(ctx context.Context, key string) (*T, error) {
	ctx, span := r.startSpan(ctx, "get", key)
	defer span.End()

	if !r.IsReady() {
		return nil, failSpan(span, domain.NewUnavailableError(fmt.Sprintf("%s repository is not available", r.entityName)), "")
	}

	entry, err := r.kvStore.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, failSpan(span, domain.NewNotFoundError(
				fmt.Sprintf("%s with key '%s' not found", r.entityName, key), err), "not found")
		}
		slog.ErrorContext(ctx, fmt.Sprintf("error getting %s from NATS KV", r.entityName),
			logging.ErrKey, err, "key", key)
		return nil, failSpan(span, domain.NewInternalError(
			fmt.Sprintf("failed to retrieve %s from store", r.entityName), err), "")
	}

	var entity T
	if err := msgpack.Unmarshal(entry.Value(), &entity); err != nil {
		slog.ErrorContext(ctx, fmt.Sprintf("error decoding %s", r.entityName),
			logging.ErrKey, err, "key", key)
		return nil, failSpan(span, domain.NewInternalError(
			fmt.Sprintf("failed to decode %s data", r.entityName), err), "")
	}

	span.SetStatus(codes.Ok, "")
	return &entity, nil
}

// Put stores an entity, replacing any previous value under the key
func (r *NatsBaseRepository[T]) Put(ctx context.Context, key string, entity *T) error {
	ctx, span := r.startSpan(ctx, "put", key)
	defer span.End()

	if !r.IsReady() {
		return failSpan(span, domain.NewUnavailableError(fmt.Sprintf("%s repository is not available", r.entityName)), "")
	}

	data, err := msgpack.Marshal(entity)
	if err != nil {
		slog.ErrorContext(ctx, fmt.Sprintf("error encoding %s", r.entityName), logging.ErrKey, err)
		return failSpan(span, domain.NewInternalError(fmt.Sprintf("failed to encode %s", r.entityName), err), "")
	}

	revision, err := r.kvStore.Put(ctx, key, data)
	if err != nil {
		slog.ErrorContext(ctx, fmt.Sprintf("error storing %s in NATS KV", r.entityName),
			logging.ErrKey, err, "key", key)
		return failSpan(span, domain.NewInternalError(fmt.Sprintf("failed to store %s", r.entityName), err), "")
	}

	span.SetAttributes(attribute.Int64("db.nats.revision", int64(revision)))
	span.SetStatus(codes.Ok, "")
	return nil
}

// ListKeys lists all keys in the bucket
func (r *NatsBaseRepository[T]) ListKeys(ctx context.Context) ([]string, error) {
	ctx, span := r.startSpan(ctx, "list_keys", "")
	defer span.End()

	if !r.IsReady() {
		return nil, failSpan(span, domain.NewUnavailableError(fmt.Sprintf("%s repository is not available", r.entityName)), "")
	}

	lister, err := r.kvStore.ListKeys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			span.SetStatus(codes.Ok, "")
			return []string{}, nil
		}
		slog.ErrorContext(ctx, fmt.Sprintf("error listing %s keys from NATS KV", r.entityName),
			logging.ErrKey, err)
		return nil, failSpan(span, domain.NewInternalError(
			fmt.Sprintf("failed to list %s keys from store", r.entityName), err), "")
	}

	keys := []string{}
	for key := range lister.Keys() {
		keys = append(keys, key)
	}

	span.SetAttributes(attribute.Int("db.nats.keys_count", len(keys)))
	span.SetStatus(codes.Ok, "")
	return keys, nil
}
