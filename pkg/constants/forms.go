// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

// Legacy title tags. Older versions of the application recorded ownership and
// the closed state directly in the form title.
const (
	// LegacyAppTag marks a form as created by this application.
	LegacyAppTag = "[出欠管理]"

	// LegacyClosedTag marks a form as no longer accepting responses.
	LegacyClosedTag = "[締切]"
)

// Drive file properties used by the current status encoding.
const (
	// PropertyAppKey is the property key identifying forms owned by this application.
	PropertyAppKey = "attendance_app"

	// PropertyAppValue is the expected value of PropertyAppKey.
	PropertyAppValue = "meeting-attendance"

	// PropertyStatusKey holds the lifecycle status of the form.
	PropertyStatusKey = "attendance_status"

	// PropertyStatusClosed is the PropertyStatusKey value of a closed form.
	PropertyStatusClosed = "closed"
)

// Field title markers used to classify form questions.
const (
	OrganizationMarker = "所属"
	AttendanceMarker   = "出欠"
	RemarksMarker      = "備考"

	// ParticipantRoleLabel is the title of the participant role question.
	ParticipantRoleLabel = "役職"

	// ParticipantNameLabel is the current participant name question title.
	ParticipantNameLabel = "出席者氏名"

	// ParticipantNameLabelLegacy is the participant name title used by early forms.
	ParticipantNameLabelLegacy = "出席者名"
)

// Attendance answers.
const (
	AttendanceAttending    = "出席"
	AttendanceNotAttending = "欠席"
)

// ParticipantSeparator joins multiple participant names or roles.
const ParticipantSeparator = " / "

// DefaultMigrationBatchSize is the number of forms reconciled concurrently
// during a catalog sweep.
const DefaultMigrationBatchSize = 5

// GoogleFormMimeType is the Drive MIME type of a Google Form.
const GoogleFormMimeType = "application/vnd.google-apps.form"
