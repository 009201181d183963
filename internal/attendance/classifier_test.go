// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected Classification
	}{
		{"organization", "所属団体名", Classification{Role: models.FieldRoleOrganization}},
		{"attendance", "ご出欠", Classification{Role: models.FieldRoleAttendance}},
		{"remarks", "備考欄", Classification{Role: models.FieldRoleRemarks}},
		{"bare role", "役職", Classification{Role: models.FieldRoleParticipantRole, Slot: 1}},
		{"role full width index", "役職（3）", Classification{Role: models.FieldRoleParticipantRole, Slot: 3, Indexed: true}},
		{"role half width index", "役職(2)", Classification{Role: models.FieldRoleParticipantRole, Slot: 2, Indexed: true}},
		{"bare name", "出席者氏名", Classification{Role: models.FieldRoleParticipantName, Slot: 1}},
		{"name full width index", "出席者氏名（2）", Classification{Role: models.FieldRoleParticipantName, Slot: 2, Indexed: true}},
		{"legacy name label", "出席者名（4）", Classification{Role: models.FieldRoleParticipantName, Slot: 4, Indexed: true}},
		{"legacy bare name label", "出席者名", Classification{Role: models.FieldRoleParticipantName, Slot: 1}},
		{"name with surrounding spaces", " 出席者氏名(5) ", Classification{Role: models.FieldRoleParticipantName, Slot: 5, Indexed: true}},
		{"organization wins over later rules", "所属・役職", Classification{Role: models.FieldRoleOrganization}},
		{"attendance wins over remarks", "出欠に関する備考", Classification{Role: models.FieldRoleAttendance}},
		{"role label with suffix is unclassified", "役職名", Classification{Role: models.FieldRoleUnclassified}},
		{"unrelated title", "メールアドレス", Classification{Role: models.FieldRoleUnclassified}},
		{"empty title", "", Classification{Role: models.FieldRoleUnclassified}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.title))
		})
	}
}

func TestParseSlotIndex(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		slot    int
		indexed bool
	}{
		{"full width", "出席者氏名（12）", 12, true},
		{"half width", "出席者氏名(7)", 7, true},
		{"full width preferred", "出席者氏名(1)（2）", 2, true},
		{"no index", "出席者氏名", 0, false},
		{"zero is not a slot", "役職（0）", 0, false},
		{"non numeric", "役職（二）", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, ok := ParseSlotIndex(tt.title)
			assert.Equal(t, tt.indexed, ok)
			assert.Equal(t, tt.slot, slot)
		})
	}
}

func TestNewSchema_DropsUnusableFields(t *testing.T) {
	schema := NewSchema([]models.FieldDefinition{
		{ID: "q1", Title: "所属"},
		{ID: "", Title: "出欠"},
		{ID: "q3", Title: "   "},
		{ID: "q4", Title: "出席者氏名（1）"},
	})

	assert.Len(t, schema.Fields, 2)
	assert.Equal(t, "q1", schema.Fields[0].ID)
	assert.Equal(t, "所属", schema.Fields[0].Title)
	assert.Equal(t, "q4", schema.Fields[1].ID)

	field, ok := schema.Field("q4")
	assert.True(t, ok)
	assert.Equal(t, models.FieldRoleParticipantName, field.Role)
	assert.Equal(t, 1, field.Slot)

	_, ok = schema.Field("q3")
	assert.False(t, ok)
}
