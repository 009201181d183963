// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package attendance

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/pkg/constants"
)

var (
	// The form builder always writes full-width parentheses; hand-edited titles may not.
	fullWidthIndexPattern = regexp.MustCompile(`（(\d+)）`)
	halfWidthIndexPattern = regexp.MustCompile(`\((\d+)\)`)

	participantRolePattern = regexp.MustCompile(
		`^` + regexp.QuoteMeta(constants.ParticipantRoleLabel) + `(?:（\d+）|\(\d+\))?$`)
	participantNamePattern = regexp.MustCompile(
		`^(?:` + regexp.QuoteMeta(constants.ParticipantNameLabel) + `|` +
			regexp.QuoteMeta(constants.ParticipantNameLabelLegacy) + `)(?:（\d+）|\(\d+\))?$`)
)

// Classification is the result of classifying one question title.
type Classification struct {
	Role    models.FieldRole
	Slot    int
	Indexed bool
}

// classificationRule pairs a title predicate with the role it assigns.
// Participant rules also extract the slot index.
type classificationRule struct {
	name        string
	role        models.FieldRole
	matches     func(title string) bool
	participant bool
}

// classificationRules are evaluated in order and the first match wins.
var classificationRules = []classificationRule{
	{
		name:    "organization",
		role:    models.FieldRoleOrganization,
		matches: containsMarker(constants.OrganizationMarker),
	},
	{
		name:    "attendance",
		role:    models.FieldRoleAttendance,
		matches: containsMarker(constants.AttendanceMarker),
	},
	{
		name:    "remarks",
		role:    models.FieldRoleRemarks,
		matches: containsMarker(constants.RemarksMarker),
	},
	{
		name:        "participant role",
		role:        models.FieldRoleParticipantRole,
		matches:     matchesTrimmed(participantRolePattern),
		participant: true,
	},
	{
		name:        "participant name",
		role:        models.FieldRoleParticipantName,
		matches:     matchesTrimmed(participantNamePattern),
		participant: true,
	},
}

func containsMarker(marker string) func(string) bool {
	return func(title string) bool {
		return strings.Contains(title, marker)
	}
}

func matchesTrimmed(pattern *regexp.Regexp) func(string) bool {
	return func(title string) bool {
		return pattern.MatchString(strings.TrimSpace(title))
	}
}

// Classify maps a question title to its logical role.
func Classify(title string) Classification {
	for _, rule := range classificationRules {
		if !rule.matches(title) {
			continue
		}
		if !rule.participant {
			return Classification{Role: rule.role}
		}
		slot, ok := ParseSlotIndex(title)
		if !ok {
			return Classification{Role: rule.role, Slot: 1}
		}
		return Classification{Role: rule.role, Slot: slot, Indexed: true}
	}
	return Classification{Role: models.FieldRoleUnclassified}
}

// ParseSlotIndex extracts the parenthesized participant number from a title.
// Full-width parentheses are tried before half-width ones.
func ParseSlotIndex(title string) (int, bool) {
	for _, pattern := range []*regexp.Regexp{fullWidthIndexPattern, halfWidthIndexPattern} {
		m := pattern.FindStringSubmatch(title)
		if len(m) < 2 {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
