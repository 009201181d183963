// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package google

import (
	"context"

	driveapi "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain/models"
)

const (
	fileFields     googleapi.Field = "id,name,properties,createdTime,modifiedTime"
	fileListFields googleapi.Field = "nextPageToken,files(" + fileFields + ")"
	filesPageSize                  = 1000
)

// DriveClient implements domain.DriveClient.
type DriveClient struct {
	*Client
}

var _ domain.DriveClient = (*DriveClient)(nil)

// NewDriveClient returns a drive client sharing the given transport.
func NewDriveClient(client *Client) *DriveClient {
	return &DriveClient{Client: client}
}

// GetMetadata retrieves the file record backing a form.
func (c *DriveClient) GetMetadata(ctx context.Context, fileID string) (*models.FileMetadata, error) {
	var file *driveapi.File
	err := c.do(ctx, "drive.files.get", func(ctx context.Context) error {
		var err error
		file, err = c.drive.Files.Get(fileID).
			Fields(fileFields).
			SupportsAllDrives(true).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, err
	}
	meta := toFileMetadata(file)
	return &meta, nil
}

// UpdateMetadata applies a partial update to the file name and/or properties.
func (c *DriveClient) UpdateMetadata(ctx context.Context, fileID string, update models.MetadataUpdate) (*models.FileMetadata, error) {
	body := &driveapi.File{Properties: update.Properties}
	if update.Name != nil {
		body.Name = *update.Name
	}

	var file *driveapi.File
	err := c.do(ctx, "drive.files.update", func(ctx context.Context) error {
		var err error
		file, err = c.drive.Files.Update(fileID, body).
			Fields(fileFields).
			SupportsAllDrives(true).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, err
	}
	meta := toFileMetadata(file)
	return &meta, nil
}

// ListCatalog lists one page of files matching a Drive search query.
func (c *DriveClient) ListCatalog(ctx context.Context, q, pageToken string) (*models.CatalogPage, error) {
	var list *driveapi.FileList
	err := c.do(ctx, "drive.files.list", func(ctx context.Context) error {
		call := c.drive.Files.List().
			Q(q).
			Fields(fileListFields).
			PageSize(filesPageSize).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		var err error
		list, err = call.Do()
		return err
	})
	if err != nil {
		return nil, err
	}

	page := &models.CatalogPage{
		Files:         make([]models.FileMetadata, 0, len(list.Files)),
		NextPageToken: list.NextPageToken,
	}
	for _, f := range list.Files {
		if f == nil {
			continue
		}
		page.Files = append(page.Files, toFileMetadata(f))
	}
	return page, nil
}

func toFileMetadata(f *driveapi.File) models.FileMetadata {
	props := f.Properties
	if props == nil {
		props = map[string]string{}
	}
	return models.FileMetadata{
		ID:           f.Id,
		Name:         f.Name,
		Properties:   props,
		CreatedTime:  parseTime(f.CreatedTime),
		ModifiedTime: parseTime(f.ModifiedTime),
	}
}
