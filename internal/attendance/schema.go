// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package attendance

import (
	"strings"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain/models"
)

// Schema is the classified question list of one form, in form order.
type Schema struct {
	Fields []models.SchemaField
	byID   map[string]int
}

// NewSchema classifies the question definitions of a form. Definitions without
// an id or a non-empty title are dropped.
func NewSchema(defs []models.FieldDefinition) *Schema {
	s := &Schema{
		Fields: make([]models.SchemaField, 0, len(defs)),
		byID:   make(map[string]int, len(defs)),
	}
	for _, def := range defs {
		if def.ID == "" || strings.TrimSpace(def.Title) == "" {
			continue
		}
		c := Classify(def.Title)
		field := models.SchemaField{
			ID:      def.ID,
			Title:   def.Title,
			Role:    c.Role,
			Slot:    c.Slot,
			Indexed: c.Indexed,
		}
		if i, ok := s.byID[def.ID]; ok {
			s.Fields[i] = field
			continue
		}
		s.byID[def.ID] = len(s.Fields)
		s.Fields = append(s.Fields, field)
	}
	return s
}

// Field returns the classified field with the given id.
func (s *Schema) Field(id string) (models.SchemaField, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.SchemaField{}, false
	}
	return s.Fields[i], true
}
