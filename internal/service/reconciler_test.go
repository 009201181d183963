// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain/mocks"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/pkg/constants"
)

func markerProps() map[string]string {
	return map[string]string{constants.PropertyAppKey: constants.PropertyAppValue}
}

func loadFakeForm(t *testing.T, remote *fakeRemote, id string) *models.MeetingForm {
	t.Helper()
	file, err := remote.GetMetadata(context.Background(), id)
	require.NoError(t, err)
	doc, err := remote.GetForm(context.Background(), id)
	require.NoError(t, err)
	return newMeetingForm(*file, doc, nil)
}

func TestReconciler_ServiceReady(t *testing.T) {
	assert.True(t, NewReconciler(&mocks.MockFormsClient{}, &mocks.MockDriveClient{}, nil, ServiceConfig{}).ServiceReady())
	assert.False(t, NewReconciler(nil, &mocks.MockDriveClient{}, nil, ServiceConfig{}).ServiceReady())
	assert.False(t, NewReconciler(&mocks.MockFormsClient{}, nil, nil, ServiceConfig{}).ServiceReady())
	assert.Equal(t, 5, constants.DefaultMigrationBatchSize)
	assert.Equal(t, constants.DefaultMigrationBatchSize, NewReconciler(nil, nil, nil, ServiceConfig{}).BatchSize)
	assert.Equal(t, constants.DefaultMigrationBatchSize, NewReconciler(nil, nil, nil, ServiceConfig{MigrationBatchSize: -1}).BatchSize)
}

func TestReconcile_MigratesLegacyClosedForm(t *testing.T) {
	remote := newFakeRemote()
	remote.addForm("f1", "[出欠管理] [締切] 定例会", "[出欠管理] 定例会", map[string]string{"owner": "ops"})

	reconciler := NewReconciler(remote, remote, nil, ServiceConfig{})
	form := loadFakeForm(t, remote, "f1")

	result := reconciler.Reconcile(context.Background(), form)

	assert.True(t, result.NeedsProxyUpdate)
	assert.True(t, result.NeedsTitleUpdate)
	assert.True(t, result.ProxyUpdated)
	assert.True(t, result.TitleUpdated)
	assert.True(t, result.Completed)

	file := remote.file("f1")
	assert.Equal(t, "定例会", file.Name)
	assert.Equal(t, map[string]string{
		"owner":                     "ops",
		constants.PropertyAppKey:    constants.PropertyAppValue,
		constants.PropertyStatusKey: constants.PropertyStatusClosed,
	}, file.Properties)

	doc, err := remote.GetForm(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, "定例会", doc.Title)

	// The form reflects the migrated state.
	assert.Equal(t, "定例会", form.Title)
	assert.Equal(t, "定例会", form.DocumentTitle)
	assert.Equal(t, models.FormStatusClosed, formStatus(form))
}

func TestReconcile_Convergence(t *testing.T) {
	remote := newFakeRemote()
	remote.addForm("f1", "[出欠管理] 週次会議", "[出欠管理] 週次会議", nil)
	reconciler := NewReconciler(remote, remote, nil, ServiceConfig{})

	first := reconciler.Reconcile(context.Background(), loadFakeForm(t, remote, "f1"))
	require.True(t, first.Completed)
	titleUpdates, metadataUpdates := remote.updates()
	assert.Equal(t, 1, titleUpdates)
	assert.Equal(t, 1, metadataUpdates)

	second := reconciler.Reconcile(context.Background(), loadFakeForm(t, remote, "f1"))
	assert.False(t, second.NeedsProxyUpdate)
	assert.False(t, second.NeedsTitleUpdate)
	assert.True(t, second.Completed)
	assert.False(t, second.Changed())

	titleUpdates, metadataUpdates = remote.updates()
	assert.Equal(t, 1, titleUpdates, "second run must not update the title")
	assert.Equal(t, 1, metadataUpdates, "second run must not update metadata")

	// Open legacy forms do not gain a status key.
	_, hasStatus := remote.file("f1").Properties[constants.PropertyStatusKey]
	assert.False(t, hasStatus)
}

func TestReconcile_AlreadyMigratedIsNoop(t *testing.T) {
	formsClient := &mocks.MockFormsClient{}
	driveClient := &mocks.MockDriveClient{}
	ledger := &mocks.MockMigrationLedger{}
	reconciler := NewReconciler(formsClient, driveClient, ledger, ServiceConfig{})

	result := reconciler.Reconcile(context.Background(), &models.MeetingForm{
		ID:            "f1",
		Title:         "定例会",
		DocumentTitle: "定例会",
		Properties:    markerProps(),
	})

	assert.True(t, result.Completed)
	assert.False(t, result.Changed())
	formsClient.AssertExpectations(t)
	driveClient.AssertExpectations(t)
	ledger.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestReconcile_KeepsExistingStatusKey(t *testing.T) {
	remote := newFakeRemote()
	remote.addForm("f1", "[締切] 定例会", "定例会", map[string]string{constants.PropertyStatusKey: "open"})
	reconciler := NewReconciler(remote, remote, nil, ServiceConfig{})

	result := reconciler.Reconcile(context.Background(), loadFakeForm(t, remote, "f1"))
	require.True(t, result.ProxyUpdated)
	assert.False(t, result.NeedsTitleUpdate)

	props := remote.file("f1").Properties
	assert.Equal(t, constants.PropertyAppValue, props[constants.PropertyAppKey])
	assert.Equal(t, "open", props[constants.PropertyStatusKey])
}

func TestReconcile_MarkerPresentButNameTagged(t *testing.T) {
	remote := newFakeRemote()
	remote.addForm("f1", "[出欠管理] 定例会", "定例会", markerProps())
	reconciler := NewReconciler(remote, remote, nil, ServiceConfig{})

	result := reconciler.Reconcile(context.Background(), loadFakeForm(t, remote, "f1"))
	assert.True(t, result.NeedsProxyUpdate)
	assert.True(t, result.ProxyUpdated)
	assert.Equal(t, "定例会", remote.file("f1").Name)
}

func TestReconcile_ProxyFailureIsSwallowed(t *testing.T) {
	formsClient := &mocks.MockFormsClient{}
	driveClient := &mocks.MockDriveClient{}
	ledger := &mocks.MockMigrationLedger{}
	driveClient.On("UpdateMetadata", mock.Anything, "f1", mock.Anything).
		Return(nil, domain.NewUnavailableError("drive down"))

	reconciler := NewReconciler(formsClient, driveClient, ledger, ServiceConfig{})
	form := &models.MeetingForm{ID: "f1", Title: "[出欠管理] 定例会", DocumentTitle: "定例会", Properties: map[string]string{}}

	result := reconciler.Reconcile(context.Background(), form)

	assert.True(t, result.NeedsProxyUpdate)
	assert.False(t, result.ProxyUpdated)
	assert.False(t, result.Completed)
	assert.Equal(t, "[出欠管理] 定例会", form.Title, "failed update leaves the form untouched")
	assert.Empty(t, form.Properties)
	driveClient.AssertExpectations(t)
	ledger.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestReconcile_TitleFailureIsSwallowedAndRecorded(t *testing.T) {
	formsClient := &mocks.MockFormsClient{}
	driveClient := &mocks.MockDriveClient{}
	ledger := &mocks.MockMigrationLedger{}

	formsClient.On("UpdateTitle", mock.Anything, "f1", "定例会").Return(errors.New("quota exceeded"))
	driveClient.On("UpdateMetadata", mock.Anything, "f1", mock.MatchedBy(func(u models.MetadataUpdate) bool {
		return u.Name != nil && *u.Name == "定例会" &&
			u.Properties[constants.PropertyAppKey] == constants.PropertyAppValue
	})).Return(&models.FileMetadata{ID: "f1"}, nil)
	ledger.On("Record", mock.Anything, mock.MatchedBy(func(r models.MigrationRecord) bool {
		return r.FormID == "f1" && r.ProxyUpdated && !r.TitleUpdated && !r.Completed && !r.MigratedAt.IsZero()
	})).Return(errors.New("kv unavailable"))

	reconciler := NewReconciler(formsClient, driveClient, ledger, ServiceConfig{})
	result := reconciler.Reconcile(context.Background(), &models.MeetingForm{
		ID:            "f1",
		Title:         "[出欠管理] 定例会",
		DocumentTitle: "[出欠管理] 定例会",
		Properties:    map[string]string{},
	})

	assert.True(t, result.ProxyUpdated)
	assert.False(t, result.TitleUpdated)
	assert.False(t, result.Completed)
	formsClient.AssertExpectations(t)
	driveClient.AssertExpectations(t)
	ledger.AssertExpectations(t)
}

func TestReconcile_SkipsFormsWithoutAttendanceState(t *testing.T) {
	formsClient := &mocks.MockFormsClient{}
	driveClient := &mocks.MockDriveClient{}
	reconciler := NewReconciler(formsClient, driveClient, nil, ServiceConfig{})

	result := reconciler.Reconcile(context.Background(), &models.MeetingForm{
		ID:            "f1",
		Title:         "Unrelated survey",
		DocumentTitle: "Unrelated survey",
		Properties:    map[string]string{},
	})

	assert.False(t, result.NeedsProxyUpdate)
	assert.False(t, result.Changed())
	assert.False(t, result.Completed)
	driveClient.AssertNotCalled(t, "UpdateMetadata", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcile_SkipsTitleThatCleansToEmpty(t *testing.T) {
	remote := newFakeRemote()
	remote.addForm("f1", "定例会", "[出欠管理]", markerProps())
	reconciler := NewReconciler(remote, remote, nil, ServiceConfig{})

	result := reconciler.Reconcile(context.Background(), loadFakeForm(t, remote, "f1"))
	assert.True(t, result.NeedsTitleUpdate)
	assert.False(t, result.TitleUpdated)

	titleUpdates, _ := remote.updates()
	assert.Equal(t, 0, titleUpdates)
}

func TestReconcile_NameThatCleansToEmptySettles(t *testing.T) {
	remote := newFakeRemote()
	remote.addForm("f1", "[出欠管理]", "週次会議", nil)
	reconciler := NewReconciler(remote, remote, nil, ServiceConfig{})

	first := reconciler.Reconcile(context.Background(), loadFakeForm(t, remote, "f1"))
	assert.True(t, first.NeedsProxyUpdate)
	assert.True(t, first.ProxyUpdated)
	assert.False(t, first.Completed)

	file := remote.file("f1")
	assert.Equal(t, "[出欠管理]", file.Name)
	assert.Equal(t, constants.PropertyAppValue, file.Properties[constants.PropertyAppKey])

	for range 2 {
		again := reconciler.Reconcile(context.Background(), loadFakeForm(t, remote, "f1"))
		assert.False(t, again.NeedsProxyUpdate)
		assert.False(t, again.NeedsTitleUpdate)
		assert.False(t, again.Completed)
	}

	titleUpdates, metadataUpdates := remote.updates()
	assert.Equal(t, 0, titleUpdates)
	assert.Equal(t, 1, metadataUpdates)
}

func TestReconcileAll_BoundedBatches(t *testing.T) {
	remote := newFakeRemote()
	remote.latency = 5 * time.Millisecond

	var forms []*models.MeetingForm
	for i := range 12 {
		id := fmt.Sprintf("f%d", i)
		remote.addForm(id, "[出欠管理] 会議 "+id, "会議 "+id, nil)
		forms = append(forms, loadFakeForm(t, remote, id))
	}

	reconciler := NewReconciler(remote, remote, nil, ServiceConfig{MigrationBatchSize: 5})
	results := reconciler.ReconcileAll(context.Background(), forms)

	require.Len(t, results, 12)
	for i, r := range results {
		assert.Equal(t, forms[i].ID, r.FormID)
		assert.True(t, r.Completed)
	}
	_, metadataUpdates := remote.updates()
	assert.Equal(t, 12, metadataUpdates)
	assert.LessOrEqual(t, remote.peakInFlight, 5)
}

func TestReconcileAll_PartialFailure(t *testing.T) {
	formsClient := &mocks.MockFormsClient{}
	driveClient := &mocks.MockDriveClient{}
	driveClient.On("UpdateMetadata", mock.Anything, "bad", mock.Anything).Return(nil, errors.New("boom"))
	driveClient.On("UpdateMetadata", mock.Anything, mock.Anything, mock.Anything).Return(&models.FileMetadata{}, nil)

	forms := []*models.MeetingForm{
		{ID: "ok1", Title: "[出欠管理] a", Properties: map[string]string{}},
		{ID: "bad", Title: "[出欠管理] b", Properties: map[string]string{}},
		{ID: "ok2", Title: "[出欠管理] c", Properties: map[string]string{}},
	}

	results := NewReconciler(formsClient, driveClient, nil, ServiceConfig{}).ReconcileAll(context.Background(), forms)

	require.Len(t, results, 3)
	assert.True(t, results[0].Completed)
	assert.False(t, results[1].Completed)
	assert.True(t, results[2].Completed)
}

func TestMergedProperties(t *testing.T) {
	current := map[string]string{"a": "1"}

	merged := mergedProperties(current, true)
	assert.Equal(t, map[string]string{
		"a":                         "1",
		constants.PropertyAppKey:    constants.PropertyAppValue,
		constants.PropertyStatusKey: constants.PropertyStatusClosed,
	}, merged)
	assert.Equal(t, map[string]string{"a": "1"}, current, "input must not be mutated")

	assert.NotContains(t, mergedProperties(current, false), constants.PropertyStatusKey)
}
