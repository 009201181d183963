// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain/models"
)

// MockMigrationLedger implements MigrationLedger for testing
type MockMigrationLedger struct {
	mock.Mock
}

func (m *MockMigrationLedger) Record(ctx context.Context, record models.MigrationRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockMigrationLedger) Get(ctx context.Context, formID string) (*models.MigrationRecord, error) {
	args := m.Called(ctx, formID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MigrationRecord), args.Error(1)
}

func (m *MockMigrationLedger) List(ctx context.Context) ([]*models.MigrationRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MigrationRecord), args.Error(1)
}
