// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/infrastructure/auth"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/infrastructure/google"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/infrastructure/store"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/logging"
)

// migrationLedgerHistory is the number of revisions kept per form in the ledger bucket.
const migrationLedgerHistory = 5

// setupJWTAuth configures JWT authentication for the service
func setupJWTAuth() (*auth.JWTAuth, error) {
	jwtAuthConfig := auth.JWTAuthConfig{
		JWKSURL:            os.Getenv("JWKS_URL"),
		Audience:           os.Getenv("JWT_AUDIENCE"),
		MockLocalPrincipal: os.Getenv("JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL"),
	}
	return auth.NewJWTAuth(jwtAuthConfig)
}

// setupGoogleClients creates the Forms and Drive clients sharing one
// authenticated transport.
func setupGoogleClients(ctx context.Context, env environment) (*google.FormsClient, *google.DriveClient, error) {
	client, err := google.NewClient(ctx, env.Google)
	if err != nil {
		return nil, nil, err
	}
	return google.NewFormsClient(client), google.NewDriveClient(client), nil
}

// getMigrationLedger opens the migration ledger bucket, creating it when missing.
// A nil ledger is returned when the ledger is disabled.
func getMigrationLedger(ctx context.Context, env environment, natsConn *nats.Conn) (domain.MigrationLedger, error) {
	if env.MigrationLedgerDisabled {
		slog.InfoContext(ctx, "migration ledger disabled")
		return nil, nil
	}

	js, err := jetstream.New(natsConn)
	if err != nil {
		slog.ErrorContext(ctx, "error creating NATS JetStream client", logging.ErrKey, err)
		return nil, err
	}

	kv, err := js.KeyValue(ctx, store.KVStoreNameMigrations)
	if errors.Is(err, jetstream.ErrBucketNotFound) {
		slog.InfoContext(ctx, "creating NATS KV bucket", "bucket", store.KVStoreNameMigrations)
		kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:      store.KVStoreNameMigrations,
			Description: "attendance form migration audit trail",
			History:     migrationLedgerHistory,
		})
	}
	if err != nil {
		slog.ErrorContext(ctx, "error getting NATS KV store", logging.ErrKey, err, "store", store.KVStoreNameMigrations)
		return nil, err
	}

	return store.NewNatsMigrationLedger(kv), nil
}
