// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/attendance"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/pkg/concurrent"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/pkg/constants"
)

// catalogQueries discover attendance forms by property marker and by legacy name tag.
var catalogQueries = []string{
	fmt.Sprintf("properties has { key='%s' and value='%s' } and mimeType='%s' and trashed=false",
		constants.PropertyAppKey, constants.PropertyAppValue, constants.GoogleFormMimeType),
	fmt.Sprintf("(name contains '%s' or name contains '%s') and mimeType='%s' and trashed=false",
		constants.LegacyAppTag, constants.LegacyClosedTag, constants.GoogleFormMimeType),
}

// AttendanceService serves attendance forms: catalog, responses, summary,
// status and closing. Every call reads the latest remote state.
type AttendanceService struct {
	FormsClient domain.FormsClient
	DriveClient domain.DriveClient
	Ledger      domain.MigrationLedger
	Reconciler  *Reconciler
	Config      ServiceConfig
}

// NewAttendanceService creates a new AttendanceService. ledger may be nil.
func NewAttendanceService(
	formsClient domain.FormsClient,
	driveClient domain.DriveClient,
	ledger domain.MigrationLedger,
	config ServiceConfig,
) *AttendanceService {
	return &AttendanceService{
		FormsClient: formsClient,
		DriveClient: driveClient,
		Ledger:      ledger,
		Reconciler:  NewReconciler(formsClient, driveClient, ledger, config),
		Config:      config,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *AttendanceService) ServiceReady() bool {
	return s.FormsClient != nil &&
		s.DriveClient != nil &&
		s.Reconciler != nil &&
		s.Reconciler.ServiceReady()
}

// GetCatalog lists every attendance form, migrating each one on the way.
func (s *AttendanceService) GetCatalog(ctx context.Context) ([]models.CatalogEntry, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	files, err := s.discover(ctx)
	if err != nil {
		return nil, err
	}

	// Load each form document so legacy document titles are migrated too.
	loaded := concurrent.MapSettled(ctx, files, s.Config.batchSize(), func(ctx context.Context, file models.FileMetadata) (*models.MeetingForm, error) {
		doc, err := s.FormsClient.GetForm(ctx, file.ID)
		if err != nil {
			return nil, err
		}
		return newMeetingForm(file, doc, nil), nil
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	failed := concurrent.Errors(loaded)
	for _, err := range failed {
		if domain.IsUnauthorized(err) {
			return nil, err
		}
	}
	if len(failed) > 0 {
		slog.WarnContext(ctx, "some form documents could not be loaded for catalog",
			"failed_count", len(failed),
			"form_count", len(files))
	}

	forms := make([]*models.MeetingForm, len(files))
	for i, l := range loaded {
		if l.Err != nil {
			slog.WarnContext(ctx, "failed to load form document for catalog, using file metadata only",
				"form_id", files[i].ID,
				logging.ErrKey, l.Err)
			forms[i] = newMeetingForm(files[i], nil, nil)
			continue
		}
		forms[i] = l.Value
	}

	results := s.Reconciler.ReconcileAll(ctx, forms)

	entries := make([]models.CatalogEntry, len(forms))
	for i, form := range forms {
		form.Status = formStatus(form)
		entries[i] = models.CatalogEntry{
			ID:                 form.ID,
			Title:              attendance.StripLegacyTags(form.Title),
			AcceptingResponses: form.Status.AcceptingResponses(),
			CreatedTime:        files[i].CreatedTime,
			ModifiedTime:       files[i].ModifiedTime,
			Migrated:           results[i].Completed,
		}
	}

	slog.DebugContext(ctx, "catalog assembled", "form_count", len(entries))
	return entries, nil
}

// discover runs the catalog queries concurrently and de-duplicates by file id,
// keeping the first occurrence.
func (s *AttendanceService) discover(ctx context.Context) ([]models.FileMetadata, error) {
	pages := make([][]models.FileMetadata, len(catalogQueries))
	functions := make([]func(context.Context) error, len(catalogQueries))
	for i, query := range catalogQueries {
		functions[i] = func(ctx context.Context) error {
			files, err := s.listAll(ctx, query)
			pages[i] = files
			return err
		}
	}

	if err := concurrent.NewWorkerPool(len(functions)).Run(ctx, functions...); err != nil {
		slog.ErrorContext(ctx, "failed to list attendance forms", logging.ErrKey, err)
		return nil, err
	}

	seen := make(map[string]struct{})
	var files []models.FileMetadata
	for _, page := range pages {
		for _, f := range page {
			if _, ok := seen[f.ID]; ok {
				continue
			}
			seen[f.ID] = struct{}{}
			files = append(files, f)
		}
	}
	return files, nil
}

func (s *AttendanceService) listAll(ctx context.Context, query string) ([]models.FileMetadata, error) {
	var files []models.FileMetadata
	pageToken := ""
	for {
		page, err := s.DriveClient.ListCatalog(ctx, query, pageToken)
		if err != nil {
			return nil, err
		}
		files = append(files, page.Files...)
		if page.NextPageToken == "" {
			return files, nil
		}
		pageToken = page.NextPageToken
	}
}

// GetResponses returns the normalized attendance records of one form.
func (s *AttendanceService) GetResponses(ctx context.Context, formID string) ([]models.AttendanceRecord, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}
	ctx = logging.AppendCtx(ctx, slog.String("form_id", formID))

	_, schema, err := s.loadForm(ctx, formID)
	if err != nil {
		return nil, err
	}

	var records []models.AttendanceRecord
	pageToken := ""
	for {
		page, err := s.FormsClient.ListResponses(ctx, formID, pageToken)
		if err != nil {
			slog.ErrorContext(ctx, "failed to list form responses", logging.ErrKey, err)
			return nil, err
		}
		records = append(records, attendance.NormalizeAll(schema, page.Responses)...)
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	if records == nil {
		records = []models.AttendanceRecord{}
	}

	slog.DebugContext(ctx, "responses normalized", "response_count", len(records))
	return records, nil
}

// GetSummary returns the response and attendee counts of one form.
func (s *AttendanceService) GetSummary(ctx context.Context, formID string) (*models.Summary, error) {
	records, err := s.GetResponses(ctx, formID)
	if err != nil {
		return nil, err
	}
	summary := attendance.Summarize(records)
	return &summary, nil
}

// GetStatus returns the title, responder URL and accepting flag of one form.
func (s *AttendanceService) GetStatus(ctx context.Context, formID string) (*models.FormState, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}
	ctx = logging.AppendCtx(ctx, slog.String("form_id", formID))

	form, _, err := s.loadForm(ctx, formID)
	if err != nil {
		return nil, err
	}
	return formState(form), nil
}

// Close stops a form from accepting responses. Closing an already closed form
// returns its state without any remote update.
func (s *AttendanceService) Close(ctx context.Context, formID string) (*models.FormState, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}
	ctx = logging.AppendCtx(ctx, slog.String("form_id", formID))

	form, _, err := s.loadForm(ctx, formID)
	if err != nil {
		return nil, err
	}

	switch form.Status {
	case models.FormStatusClosed:
		slog.DebugContext(ctx, "form already closed")
		return formState(form), nil
	case models.FormStatusUnknown:
		slog.WarnContext(ctx, "refusing to close a form without attendance state")
		return nil, domain.ErrNotAttendanceForm
	}

	props := mergedProperties(form.Properties, false)
	props[constants.PropertyStatusKey] = constants.PropertyStatusClosed
	update := models.MetadataUpdate{Properties: props}
	if attendance.HasLegacyTags(form.Title) {
		if clean := attendance.StripLegacyTags(form.Title); clean != "" {
			update.Name = &clean
		}
	}

	if _, err := s.DriveClient.UpdateMetadata(ctx, formID, update); err != nil {
		slog.ErrorContext(ctx, "failed to close form", logging.ErrKey, err)
		return nil, err
	}

	form.Properties = props
	if update.Name != nil {
		form.Title = *update.Name
	}
	form.Status = models.FormStatusClosed

	slog.InfoContext(ctx, "form closed")
	return formState(form), nil
}

// GetMigration returns the last recorded migration of one form.
func (s *AttendanceService) GetMigration(ctx context.Context, formID string) (*models.MigrationRecord, error) {
	if s.Ledger == nil {
		slog.WarnContext(ctx, "migration ledger not configured")
		return nil, domain.ErrServiceUnavailable
	}
	ctx = logging.AppendCtx(ctx, slog.String("form_id", formID))

	return s.Ledger.Get(ctx, formID)
}

// ListMigrations returns every recorded migration, most recent first.
func (s *AttendanceService) ListMigrations(ctx context.Context) ([]*models.MigrationRecord, error) {
	if s.Ledger == nil {
		slog.WarnContext(ctx, "migration ledger not configured")
		return nil, domain.ErrServiceUnavailable
	}

	records, err := s.Ledger.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].MigratedAt.After(records[j].MigratedAt)
	})
	return records, nil
}

// Migrate reconciles one form and returns the outcome.
func (s *AttendanceService) Migrate(ctx context.Context, formID string) (*models.MigrationResult, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}
	ctx = logging.AppendCtx(ctx, slog.String("form_id", formID))

	file, doc, err := s.fetch(ctx, formID)
	if err != nil {
		return nil, err
	}
	result := s.Reconciler.Reconcile(ctx, newMeetingForm(*file, doc, nil))
	return &result, nil
}

// loadForm fetches the file metadata and form document, migrates the form and
// classifies its questions.
func (s *AttendanceService) loadForm(ctx context.Context, formID string) (*models.MeetingForm, *attendance.Schema, error) {
	file, doc, err := s.fetch(ctx, formID)
	if err != nil {
		return nil, nil, err
	}

	schema := attendance.NewSchema(doc.Fields)
	form := newMeetingForm(*file, doc, schema)

	s.Reconciler.Reconcile(ctx, form)
	form.Status = formStatus(form)

	return form, schema, nil
}

// fetch reads the file metadata and the form document concurrently.
func (s *AttendanceService) fetch(ctx context.Context, formID string) (*models.FileMetadata, *models.FormDocument, error) {
	var (
		file *models.FileMetadata
		doc  *models.FormDocument
	)

	err := concurrent.NewWorkerPool(2).Run(ctx,
		func(ctx context.Context) error {
			var err error
			file, err = s.DriveClient.GetMetadata(ctx, formID)
			return err
		},
		func(ctx context.Context) error {
			var err error
			doc, err = s.FormsClient.GetForm(ctx, formID)
			return err
		},
	)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load form", logging.ErrKey, err)
		return nil, nil, err
	}
	return file, doc, nil
}

func newMeetingForm(file models.FileMetadata, doc *models.FormDocument, schema *attendance.Schema) *models.MeetingForm {
	form := &models.MeetingForm{
		ID:         file.ID,
		Title:      file.Name,
		Properties: file.Properties,
	}
	if form.Properties == nil {
		form.Properties = map[string]string{}
	}
	if doc != nil {
		form.DocumentTitle = doc.Title
		form.ResponderURL = doc.ResponderURL
		if form.ID == "" {
			form.ID = doc.ID
		}
	}
	if schema != nil {
		form.Fields = schema.Fields
	}
	return form
}

// formStatus decodes the status from the file name, falling back to the
// document title when the name carries no state.
func formStatus(form *models.MeetingForm) models.FormStatus {
	status := attendance.DecodeStatus(form.Title, form.Properties)
	if status == models.FormStatusUnknown {
		status = attendance.DecodeStatus(form.DocumentTitle, form.Properties)
	}
	return status
}

func formState(form *models.MeetingForm) *models.FormState {
	title := attendance.StripLegacyTags(form.DocumentTitle)
	if title == "" {
		title = attendance.StripLegacyTags(form.Title)
	}
	return &models.FormState{
		FormID:             form.ID,
		Title:              title,
		URL:                form.ResponderURL,
		AcceptingResponses: form.Status.AcceptingResponses(),
	}
}
