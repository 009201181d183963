// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import "time"

// FileMetadata is the Drive file record backing a form.
type FileMetadata struct {
	ID           string
	Name         string
	Properties   map[string]string
	CreatedTime  time.Time
	ModifiedTime time.Time
}

// MetadataUpdate is a partial Drive file update. Nil/empty fields are left untouched.
type MetadataUpdate struct {
	Name       *string
	Properties map[string]string
}

// CatalogPage is one page of Drive file listings.
type CatalogPage struct {
	Files         []FileMetadata
	NextPageToken string
}

// MigrationResult is the outcome of reconciling one form.
type MigrationResult struct {
	FormID           string `json:"form_id"`
	NeedsProxyUpdate bool   `json:"needs_proxy_update"`
	NeedsTitleUpdate bool   `json:"needs_title_update"`
	ProxyUpdated     bool   `json:"proxy_updated"`
	TitleUpdated     bool   `json:"title_updated"`
	Completed        bool   `json:"completed"`

	// Metadata is the file state after reconciliation.
	Metadata FileMetadata `json:"-"`
}

// Changed reports whether any remote update was applied.
func (r MigrationResult) Changed() bool {
	return r.ProxyUpdated || r.TitleUpdated
}

// MigrationRecord is the audit entry stored in the migration ledger.
type MigrationRecord struct {
	FormID       string    `json:"form_id" msgpack:"form_id"`
	ProxyUpdated bool      `json:"proxy_updated" msgpack:"proxy_updated"`
	TitleUpdated bool      `json:"title_updated" msgpack:"title_updated"`
	Completed    bool      `json:"completed" msgpack:"completed"`
	MigratedAt   time.Time `json:"migrated_at" msgpack:"migrated_at"`
}
