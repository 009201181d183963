// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"maps"
	"time"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/attendance"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/pkg/concurrent"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/pkg/constants"
)

// Reconciler upgrades forms from legacy title tags to the property encoding.
// Every failure is logged and reported in the result, never returned.
type Reconciler struct {
	FormsClient domain.FormsClient
	DriveClient domain.DriveClient
	// Ledger is optional.
	Ledger    domain.MigrationLedger
	BatchSize int
}

// NewReconciler creates a new Reconciler.
func NewReconciler(formsClient domain.FormsClient, driveClient domain.DriveClient, ledger domain.MigrationLedger, config ServiceConfig) *Reconciler {
	return &Reconciler{
		FormsClient: formsClient,
		DriveClient: driveClient,
		Ledger:      ledger,
		BatchSize:   config.batchSize(),
	}
}

// ServiceReady checks if the reconciler is ready for use.
func (r *Reconciler) ServiceReady() bool {
	return r.FormsClient != nil && r.DriveClient != nil
}

// Reconcile migrates one form in place. The form is updated to reflect the
// remote state after the updates that succeeded.
func (r *Reconciler) Reconcile(ctx context.Context, form *models.MeetingForm) models.MigrationResult {
	ctx = logging.AppendCtx(ctx, slog.String("form_id", form.ID))

	// A name made only of tags cannot be cleaned, so it does not count as
	// needing an update once the marker is set.
	result := models.MigrationResult{
		FormID:           form.ID,
		NeedsProxyUpdate: !attendance.HasPropertyMarker(form.Properties) || cleanableName(form.Title),
		NeedsTitleUpdate: attendance.HasLegacyTags(form.DocumentTitle),
	}

	switch {
	case !result.NeedsProxyUpdate && !result.NeedsTitleUpdate:
		result.Completed = !attendance.HasLegacyTags(form.Title)
		result.Metadata = metadataOf(form)
		return result
	case !attendance.HasPropertyMarker(form.Properties) &&
		!attendance.HasLegacyTags(form.Title) &&
		!attendance.HasLegacyTags(form.DocumentTitle):
		// Neither encoding is present, so the form does not belong to this application.
		slog.DebugContext(ctx, "form carries no attendance state, skipping migration")
		result.NeedsProxyUpdate = false
		result.Metadata = metadataOf(form)
		return result
	}

	legacyClosed := attendance.LegacyClosed(form.Title) || attendance.LegacyClosed(form.DocumentTitle)

	if result.NeedsTitleUpdate {
		result.TitleUpdated = r.updateTitle(ctx, form)
	}

	if result.NeedsProxyUpdate {
		result.ProxyUpdated = r.updateProxy(ctx, form, legacyClosed)
	}

	result.Completed = (!result.NeedsProxyUpdate || result.ProxyUpdated) &&
		(!result.NeedsTitleUpdate || result.TitleUpdated) &&
		!attendance.HasLegacyTags(form.Title)
	result.Metadata = metadataOf(form)

	if result.Changed() {
		slog.InfoContext(ctx, "migrated form to property state",
			"proxy_updated", result.ProxyUpdated,
			"title_updated", result.TitleUpdated,
			"completed", result.Completed,
		)
		r.record(ctx, result)
	}

	return result
}

// ReconcileAll migrates the forms in sequential batches. Forms within a batch
// are reconciled concurrently. Results are in input order.
func (r *Reconciler) ReconcileAll(ctx context.Context, forms []*models.MeetingForm) []models.MigrationResult {
	settled := concurrent.MapSettled(ctx, forms, r.BatchSize, func(ctx context.Context, form *models.MeetingForm) (models.MigrationResult, error) {
		return r.Reconcile(ctx, form), nil
	})

	results := make([]models.MigrationResult, len(forms))
	for i, s := range settled {
		if s.Err != nil {
			// Only reachable when the context ended before the item started.
			results[i] = models.MigrationResult{FormID: forms[i].ID, Metadata: metadataOf(forms[i])}
			continue
		}
		results[i] = s.Value
	}
	return results
}

func (r *Reconciler) updateTitle(ctx context.Context, form *models.MeetingForm) bool {
	clean := attendance.StripLegacyTags(form.DocumentTitle)
	if clean == "" || clean == form.DocumentTitle {
		slog.WarnContext(ctx, "cleaned form title is empty or unchanged, skipping title update",
			"document_title", form.DocumentTitle)
		return false
	}

	if err := r.FormsClient.UpdateTitle(ctx, form.ID, clean); err != nil {
		slog.WarnContext(ctx, "failed to update form title during migration", logging.ErrKey, err)
		return false
	}

	form.DocumentTitle = clean
	return true
}

func (r *Reconciler) updateProxy(ctx context.Context, form *models.MeetingForm, legacyClosed bool) bool {
	props := mergedProperties(form.Properties, legacyClosed)
	update := models.MetadataUpdate{Properties: props}

	var clean string
	if attendance.HasLegacyTags(form.Title) {
		clean = attendance.StripLegacyTags(form.Title)
		if clean != "" {
			update.Name = &clean
		} else {
			slog.WarnContext(ctx, "cleaned file name is empty, keeping tagged name", "name", form.Title)
		}
	}

	if _, err := r.DriveClient.UpdateMetadata(ctx, form.ID, update); err != nil {
		slog.ErrorContext(ctx, "failed to update file metadata during migration",
			logging.ErrKey, err)
		return false
	}

	form.Properties = props
	if update.Name != nil {
		form.Title = clean
	}
	return true
}

func (r *Reconciler) record(ctx context.Context, result models.MigrationResult) {
	if r.Ledger == nil {
		return
	}

	err := r.Ledger.Record(ctx, models.MigrationRecord{
		FormID:       result.FormID,
		ProxyUpdated: result.ProxyUpdated,
		TitleUpdated: result.TitleUpdated,
		Completed:    result.Completed,
		MigratedAt:   time.Now().UTC(),
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to record migration", logging.ErrKey, err)
	}
}

// mergedProperties returns the current properties plus the marker, and
// status=closed when the legacy title said closed and no status key exists yet.
func mergedProperties(current map[string]string, legacyClosed bool) map[string]string {
	props := make(map[string]string, len(current)+2)
	maps.Copy(props, current)
	props[constants.PropertyAppKey] = constants.PropertyAppValue
	if _, ok := current[constants.PropertyStatusKey]; legacyClosed && !ok {
		props[constants.PropertyStatusKey] = constants.PropertyStatusClosed
	}
	return props
}

// cleanableName reports whether the name carries a legacy tag and keeps some
// text once the tags are removed.
func cleanableName(name string) bool {
	return attendance.HasLegacyTags(name) && attendance.StripLegacyTags(name) != ""
}

func metadataOf(form *models.MeetingForm) models.FileMetadata {
	return models.FileMetadata{
		ID:         form.ID,
		Name:       form.Title,
		Properties: form.Properties,
	}
}
