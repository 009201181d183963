// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package attendance

import (
	"sort"
	"strings"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/pkg/constants"
)

// Normalize converts one raw response into an attendance record. It never fails:
// missing or malformed answers degrade to empty values.
func Normalize(schema *Schema, response models.RawResponse) models.AttendanceRecord {
	record := models.AttendanceRecord{
		ResponseID:  response.ID,
		SubmittedAt: response.SubmittedAt,
	}

	namesBySlot := map[int]string{}
	rolesBySlot := map[int]string{}
	var attendance string

	// Walk the schema rather than the answer map so duplicates resolve in form order.
	for _, field := range schema.Fields {
		answer, ok := response.Answers[field.ID]
		if !ok {
			continue
		}
		switch field.Role {
		case models.FieldRoleOrganization:
			record.Organization = strings.TrimSpace(answer)
		case models.FieldRoleAttendance:
			attendance = strings.TrimSpace(answer)
		case models.FieldRoleRemarks:
			record.Remarks = strings.TrimSpace(answer)
		case models.FieldRoleParticipantName:
			collectSlot(namesBySlot, field, answer)
		case models.FieldRoleParticipantRole:
			collectSlot(rolesBySlot, field, answer)
		}
	}

	var names, roles []string
	for _, slot := range unionSlots(namesBySlot, rolesBySlot) {
		if v := strings.TrimSpace(namesBySlot[slot]); v != "" {
			names = append(names, v)
		}
		if v := strings.TrimSpace(rolesBySlot[slot]); v != "" {
			roles = append(roles, v)
		}
	}

	record.Names = names
	record.Name = strings.Join(names, constants.ParticipantSeparator)
	record.Role = strings.Join(roles, constants.ParticipantSeparator)
	record.Attendance = AttendanceChoice(attendance)
	record.Count = participantCount(record.Attendance, len(names))

	return record
}

// NormalizeAll normalizes every response against the same schema.
func NormalizeAll(schema *Schema, responses []models.RawResponse) []models.AttendanceRecord {
	records := make([]models.AttendanceRecord, 0, len(responses))
	for _, r := range responses {
		records = append(records, Normalize(schema, r))
	}
	return records
}

// AttendanceChoice returns the recognized attendance value, or "" when the
// answer is neither attending nor not attending.
func AttendanceChoice(answer string) string {
	switch strings.TrimSpace(answer) {
	case constants.AttendanceAttending:
		return constants.AttendanceAttending
	case constants.AttendanceNotAttending:
		return constants.AttendanceNotAttending
	default:
		return ""
	}
}

// collectSlot stores a participant answer. Empty answers are kept only for the
// bare unindexed label, which single-slot forms report as "" instead of omitting.
func collectSlot(bySlot map[int]string, field models.SchemaField, answer string) {
	if answer == "" && field.Indexed {
		return
	}
	slot := field.Slot
	if slot < 1 {
		slot = 1
	}
	bySlot[slot] = answer
}

func unionSlots(a, b map[int]string) []int {
	seen := make(map[int]struct{}, len(a)+len(b))
	slots := make([]int, 0, len(a)+len(b))
	for _, m := range []map[int]string{a, b} {
		for slot := range m {
			if _, ok := seen[slot]; ok {
				continue
			}
			seen[slot] = struct{}{}
			slots = append(slots, slot)
		}
	}
	sort.Ints(slots)
	return slots
}

// participantCount applies the attendee count policy. An attending response
// with no named participant still counts as one attendee.
func participantCount(attendance string, named int) int {
	switch attendance {
	case constants.AttendanceAttending:
		if named == 0 {
			return 1
		}
		return named
	case constants.AttendanceNotAttending:
		return 0
	default:
		return named
	}
}
