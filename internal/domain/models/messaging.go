// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

// NATS subjects that the attendance service handles.
const (
	// AttendanceSummarySubject is the request/reply subject for a form summary.
	// The subject is of the form: lfx.attendance-api.get_summary
	AttendanceSummarySubject = "lfx.attendance-api.get_summary"

	// AttendanceStatusSubject is the request/reply subject for a form status.
	// The subject is of the form: lfx.attendance-api.get_status
	AttendanceStatusSubject = "lfx.attendance-api.get_status"

	// AttendanceResponsesSubject is the request/reply subject for normalized responses.
	// The subject is of the form: lfx.attendance-api.get_responses
	AttendanceResponsesSubject = "lfx.attendance-api.get_responses"

	// AttendanceAPIQueue is the subject name for the attendance API queue group.
	AttendanceAPIQueue = "lfx.attendance-api.queue"
)

// ErrorReply is the payload sent back on request/reply subjects when a request fails.
type ErrorReply struct {
	Error string `json:"error"`
}
