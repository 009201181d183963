// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package attendance

import (
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/pkg/constants"
)

// Summarize folds attendance records into summary counts. Attendees are counted
// by named participants of attending responses, not by the record Count.
func Summarize(records []models.AttendanceRecord) models.Summary {
	summary := models.Summary{ResponseCount: len(records)}
	for _, r := range records {
		if r.Attendance != constants.AttendanceAttending {
			continue
		}
		summary.AttendeeCount += len(r.Names)
	}
	return summary
}
