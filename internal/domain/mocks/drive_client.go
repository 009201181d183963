// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain/models"
)

// MockDriveClient implements DriveClient for testing
type MockDriveClient struct {
	mock.Mock
}

func (m *MockDriveClient) GetMetadata(ctx context.Context, fileID string) (*models.FileMetadata, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FileMetadata), args.Error(1)
}

func (m *MockDriveClient) UpdateMetadata(ctx context.Context, fileID string, update models.MetadataUpdate) (*models.FileMetadata, error) {
	args := m.Called(ctx, fileID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FileMetadata), args.Error(1)
}

func (m *MockDriveClient) ListCatalog(ctx context.Context, query, pageToken string) (*models.CatalogPage, error) {
	args := m.Called(ctx, query, pageToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CatalogPage), args.Error(1)
}
