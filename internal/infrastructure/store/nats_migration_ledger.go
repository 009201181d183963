// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/logging"
)

// NatsMigrationLedger stores migration records in a NATS KV bucket, one key per form.
type NatsMigrationLedger struct {
	*NatsBaseRepository[models.MigrationRecord]
	keys *KeyBuilder
}

var _ domain.MigrationLedger = (*NatsMigrationLedger)(nil)

// NewNatsMigrationLedger creates a new NATS KV backed migration ledger.
func NewNatsMigrationLedger(kvStore INatsKeyValue) *NatsMigrationLedger {
	return &NatsMigrationLedger{
		NatsBaseRepository: NewNatsBaseRepository[models.MigrationRecord](kvStore, "migration"),
		keys:               NewKeyBuilder(""),
	}
}

// Record stores the latest migration outcome of a form.
func (l *NatsMigrationLedger) Record(ctx context.Context, record models.MigrationRecord) error {
	ctx = logging.AppendCtx(ctx, slog.String("form_id", record.FormID))
	if err := l.Put(ctx, l.keys.EntityKey(KeyPrefixMigration, record.FormID), &record); err != nil {
		return err
	}
	slog.DebugContext(ctx, "migration recorded")
	return nil
}

// Get returns the latest migration outcome of a form.
func (l *NatsMigrationLedger) Get(ctx context.Context, formID string) (*models.MigrationRecord, error) {
	return l.NatsBaseRepository.Get(ctx, l.keys.EntityKey(KeyPrefixMigration, formID))
}

// List returns every recorded migration. Undecodable entries are skipped.
func (l *NatsMigrationLedger) List(ctx context.Context) ([]*models.MigrationRecord, error) {
	keys, err := l.ListKeys(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]*models.MigrationRecord, 0, len(keys))
	for _, key := range keys {
		record, err := l.NatsBaseRepository.Get(ctx, key)
		if err != nil {
			slog.WarnContext(ctx, "failed to get migration record, skipping", "key", key, logging.ErrKey, err)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}
