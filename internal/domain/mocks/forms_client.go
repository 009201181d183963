// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain/models"
)

// MockFormsClient implements FormsClient for testing
type MockFormsClient struct {
	mock.Mock
}

func (m *MockFormsClient) GetForm(ctx context.Context, formID string) (*models.FormDocument, error) {
	args := m.Called(ctx, formID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FormDocument), args.Error(1)
}

func (m *MockFormsClient) ListResponses(ctx context.Context, formID, pageToken string) (*models.ResponsePage, error) {
	args := m.Called(ctx, formID, pageToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ResponsePage), args.Error(1)
}

func (m *MockFormsClient) UpdateTitle(ctx context.Context, formID, title string) error {
	args := m.Called(ctx, formID, title)
	return args.Error(0)
}
