// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"encoding/base64"
	"strings"

	"github.com/nats-io/nats.go"
)

// Common key prefixes
const (
	KeyPrefixMigration = "migration"
)

// KeyBuilder builds NATS KV keys from dot separated parts. Each part is
// base64url encoded so arbitrary ids stay within the key charset.
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a new key builder with an optional prefix
func NewKeyBuilder(prefix string) *KeyBuilder {
	return &KeyBuilder{
		prefix: prefix,
	}
}

// EntityKey builds an encoded key for an entity (e.g., "migration.<id>")
func (kb *KeyBuilder) EntityKey(entityType, id string) string {
	parts := []string{entityType, id}
	if kb.prefix != "" {
		parts = append([]string{kb.prefix}, parts...)
	}
	return kb.EncodeKey(parts...)
}

// EncodeKey encodes each part and joins them with dots. Wildcard parts are kept as is.
//
// NATS limitations: https://docs.nats.io/nats-concepts/jetstream/key-value-store#notes
func (kb *KeyBuilder) EncodeKey(parts ...string) string {
	res := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == ">" || part == "*" {
			res = append(res, part)
			continue
		}
		res = append(res, base64.RawURLEncoding.EncodeToString([]byte(part)))
	}
	return strings.Join(res, ".")
}

// DecodeKey reverses EncodeKey.
func (kb *KeyBuilder) DecodeKey(key string) ([]string, error) {
	if key == "" {
		return nil, nats.ErrInvalidKey
	}

	var res []string
	for _, part := range strings.Split(key, ".") {
		k, err := base64.RawURLEncoding.DecodeString(part)
		if err != nil {
			return nil, err
		}
		res = append(res, string(k))
	}
	return res, nil
}
