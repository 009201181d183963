// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"maps"
	"strconv"
	"sync"
	"time"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain/models"
)

// fakeRemote is an in-memory forms and drive backend that applies updates, so
// repeated reconciliation can be observed.
type fakeRemote struct {
	mu sync.Mutex

	files     map[string]*models.FileMetadata
	docs      map[string]*models.FormDocument
	responses map[string][]models.ResponsePage
	catalog   map[string][]string

	getFormErr  error
	metadataErr error
	latency     time.Duration

	titleUpdates    int
	metadataUpdates int
	inFlight        int
	peakInFlight    int
}

var (
	_ domain.FormsClient = (*fakeRemote)(nil)
	_ domain.DriveClient = (*fakeRemote)(nil)
)

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		files:     map[string]*models.FileMetadata{},
		docs:      map[string]*models.FormDocument{},
		responses: map[string][]models.ResponsePage{},
		catalog:   map[string][]string{},
	}
}

func (f *fakeRemote) addForm(id, name, docTitle string, props map[string]string, fields ...models.FieldDefinition) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if props == nil {
		props = map[string]string{}
	}
	f.files[id] = &models.FileMetadata{ID: id, Name: name, Properties: props}
	f.docs[id] = &models.FormDocument{
		ID:           id,
		Title:        docTitle,
		ResponderURL: "https://forms.example/" + id,
		Fields:       fields,
	}
}

func (f *fakeRemote) updates() (title, metadata int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.titleUpdates, f.metadataUpdates
}

func (f *fakeRemote) file(id string) models.FileMetadata {
	f.mu.Lock()
	defer f.mu.Unlock()
	file := *f.files[id]
	file.Properties = maps.Clone(file.Properties)
	return file
}

func (f *fakeRemote) GetForm(_ context.Context, formID string) (*models.FormDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getFormErr != nil {
		return nil, f.getFormErr
	}
	doc, ok := f.docs[formID]
	if !ok {
		return nil, domain.NewNotFoundError("form not found")
	}
	out := *doc
	return &out, nil
}

func (f *fakeRemote) ListResponses(_ context.Context, formID, pageToken string) (*models.ResponsePage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pages := f.responses[formID]
	if len(pages) == 0 {
		return &models.ResponsePage{}, nil
	}
	index := 0
	if pageToken != "" {
		index, _ = strconv.Atoi(pageToken)
	}
	page := pages[index]
	if index+1 < len(pages) {
		page.NextPageToken = strconv.Itoa(index + 1)
	}
	return &page, nil
}

func (f *fakeRemote) UpdateTitle(_ context.Context, formID, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.titleUpdates++
	f.docs[formID].Title = title
	return nil
}

func (f *fakeRemote) GetMetadata(_ context.Context, fileID string) (*models.FileMetadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, ok := f.files[fileID]
	if !ok {
		return nil, domain.NewNotFoundError("file not found")
	}
	out := *file
	out.Properties = maps.Clone(file.Properties)
	return &out, nil
}

func (f *fakeRemote) UpdateMetadata(_ context.Context, fileID string, update models.MetadataUpdate) (*models.FileMetadata, error) {
	f.mu.Lock()
	f.inFlight++
	f.peakInFlight = max(f.peakInFlight, f.inFlight)
	latency := f.latency
	f.mu.Unlock()

	time.Sleep(latency)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight--
	if f.metadataErr != nil {
		return nil, f.metadataErr
	}
	f.metadataUpdates++
	file := f.files[fileID]
	if update.Name != nil {
		file.Name = *update.Name
	}
	if update.Properties != nil {
		file.Properties = maps.Clone(update.Properties)
	}
	out := *file
	return &out, nil
}

func (f *fakeRemote) ListCatalog(_ context.Context, query, _ string) (*models.CatalogPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	page := &models.CatalogPage{}
	for _, id := range f.catalog[query] {
		file := *f.files[id]
		file.Properties = maps.Clone(file.Properties)
		page.Files = append(page.Files, file)
	}
	return page, nil
}
