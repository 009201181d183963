// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyBuilder_EntityKey(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		id       string
		expected []string
	}{
		{"no prefix", "", "1FAIpQLSe_abc-123", []string{KeyPrefixMigration, "1FAIpQLSe_abc-123"}},
		{"with prefix", "v1", "form.with.dots", []string{"v1", KeyPrefixMigration, "form.with.dots"}},
		{"non ascii id", "", "定例会/2024", []string{KeyPrefixMigration, "定例会/2024"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb := NewKeyBuilder(tt.prefix)
			key := kb.EntityKey(KeyPrefixMigration, tt.id)

			assert.Regexp(t, `^[-_A-Za-z0-9.]+$`, key)

			decoded, err := kb.DecodeKey(key)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, decoded)
		})
	}
}

func TestKeyBuilder_EncodeKeyKeepsWildcards(t *testing.T) {
	kb := NewKeyBuilder("")
	key := kb.EncodeKey(KeyPrefixMigration, ">")
	assert.Equal(t, "bWlncmF0aW9u.>", key)
}

func TestKeyBuilder_DecodeKeyErrors(t *testing.T) {
	kb := NewKeyBuilder("")

	_, err := kb.DecodeKey("")
	assert.Error(t, err)

	_, err = kb.DecodeKey("not*base64")
	assert.Error(t, err)
}
