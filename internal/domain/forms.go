// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain/models"
)

// FormsClient defines the operations needed from the remote forms service.
type FormsClient interface {
	// GetForm returns the form document with its ordered question list.
	GetForm(ctx context.Context, formID string) (*models.FormDocument, error)
	// ListResponses returns one page of responses. An empty NextPageToken ends the listing.
	ListResponses(ctx context.Context, formID, pageToken string) (*models.ResponsePage, error)
	// UpdateTitle sets the title stored inside the form document.
	UpdateTitle(ctx context.Context, formID, title string) error
}

// DriveClient defines the operations needed from the remote file metadata service.
type DriveClient interface {
	GetMetadata(ctx context.Context, fileID string) (*models.FileMetadata, error)
	UpdateMetadata(ctx context.Context, fileID string, update models.MetadataUpdate) (*models.FileMetadata, error)
	// ListCatalog returns one page of files matching the query.
	ListCatalog(ctx context.Context, query, pageToken string) (*models.CatalogPage, error)
}

// MigrationLedger records the outcome of form migrations for auditing.
type MigrationLedger interface {
	Record(ctx context.Context, record models.MigrationRecord) error
	Get(ctx context.Context, formID string) (*models.MigrationRecord, error)
	List(ctx context.Context) ([]*models.MigrationRecord, error)
}
