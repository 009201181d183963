// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import "time"

// FormStatus is the lifecycle state of a meeting form as seen by this service.
type FormStatus int

const (
	// FormStatusUnknown means the form carries neither property nor legacy tag state.
	FormStatusUnknown FormStatus = iota
	// FormStatusOpen means the form is accepting responses.
	FormStatusOpen
	// FormStatusClosed means the form was closed. Closing is one-way.
	FormStatusClosed
)

// String returns the string representation of the status.
func (s FormStatus) String() string {
	switch s {
	case FormStatusOpen:
		return "open"
	case FormStatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// AcceptingResponses returns the tri-state accepting flag, nil when unknown.
func (s FormStatus) AcceptingResponses() *bool {
	switch s {
	case FormStatusOpen:
		v := true
		return &v
	case FormStatusClosed:
		v := false
		return &v
	default:
		return nil
	}
}

// MeetingForm is a remote questionnaire tracked by the attendance service.
// Title is the Drive file name; DocumentTitle is the title stored in the form itself.
type MeetingForm struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	DocumentTitle string            `json:"document_title"`
	Properties    map[string]string `json:"properties,omitempty"`
	ResponderURL  string            `json:"responder_url"`
	Fields        []SchemaField     `json:"fields,omitempty"`
	Status        FormStatus        `json:"-"`
}

// FormState is the status view of a meeting form.
type FormState struct {
	FormID             string `json:"form_id"`
	Title              string `json:"title"`
	URL                string `json:"url"`
	AcceptingResponses *bool  `json:"accepting_responses"`
}

// CatalogEntry is one form in the catalog of attendance forms.
type CatalogEntry struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	AcceptingResponses *bool     `json:"accepting_responses"`
	CreatedTime        time.Time `json:"created_time"`
	ModifiedTime       time.Time `json:"modified_time"`
	Migrated           bool      `json:"migrated"`
}
