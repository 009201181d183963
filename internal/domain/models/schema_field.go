// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

// FieldRole is the logical role of a form question.
type FieldRole string

const (
	FieldRoleUnclassified    FieldRole = "unclassified"
	FieldRoleOrganization    FieldRole = "organization"
	FieldRoleAttendance      FieldRole = "attendance"
	FieldRoleRemarks         FieldRole = "remarks"
	FieldRoleParticipantName FieldRole = "participant_name"
	FieldRoleParticipantRole FieldRole = "participant_role"
)

// IsParticipant reports whether the role carries a participant slot.
func (r FieldRole) IsParticipant() bool {
	return r == FieldRoleParticipantName || r == FieldRoleParticipantRole
}

// SchemaField is a classified question of one MeetingForm.
// Slot is the 1-based participant index and is zero for non-participant roles.
// Indexed is false when the title was the bare label without a number.
type SchemaField struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Role    FieldRole `json:"role"`
	Slot    int       `json:"slot,omitempty"`
	Indexed bool      `json:"indexed,omitempty"`
}

// FieldDefinition is a question as returned by the forms service, before classification.
type FieldDefinition struct {
	ID    string
	Title string
}

// FormDocument is the form resource returned by the forms service. Title is the
// title shown to respondents; DocumentTitle is the file name the forms service reports.
type FormDocument struct {
	ID            string
	Title         string
	DocumentTitle string
	ResponderURL  string
	Fields        []FieldDefinition
}
