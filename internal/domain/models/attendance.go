// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import "time"

// RawResponse is one submitted response. Answers maps question ids to the
// first answer value.
type RawResponse struct {
	ID          string
	SubmittedAt time.Time
	Answers     map[string]string
}

// ResponsePage is one page of responses from the forms service.
type ResponsePage struct {
	Responses     []RawResponse
	NextPageToken string
}

// AttendanceRecord is the normalized view of one response.
type AttendanceRecord struct {
	ResponseID   string    `json:"response_id"`
	Organization string    `json:"organization"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Attendance   string    `json:"attendance"`
	Count        int       `json:"count"`
	Remarks      string    `json:"remarks"`
	SubmittedAt  time.Time `json:"submitted_at"`

	// Names holds the individual non-empty participant names joined into Name.
	Names []string `json:"-"`
}

// Summary is the aggregated attendance of one form.
type Summary struct {
	ResponseCount int `json:"response_count"`
	AttendeeCount int `json:"attendee_count"`
}
