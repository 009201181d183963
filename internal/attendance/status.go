// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package attendance

import (
	"strings"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/pkg/constants"
)

var legacyTags = []string{constants.LegacyAppTag, constants.LegacyClosedTag}

// statusSource resolves a form status from one representation. ok is false when
// the representation carries no information.
type statusSource func(title string, props map[string]string) (status models.FormStatus, ok bool)

// statusSources are consulted in priority order. The property map is
// authoritative once its marker is set; title tags are only a fallback.
var statusSources = []statusSource{
	propertyStatus,
	legacyTagStatus,
}

// DecodeStatus resolves whether a form is accepting responses.
func DecodeStatus(title string, props map[string]string) models.FormStatus {
	for _, source := range statusSources {
		if status, ok := source(title, props); ok {
			return status
		}
	}
	return models.FormStatusUnknown
}

// HasPropertyMarker reports whether the property map carries the application marker.
func HasPropertyMarker(props map[string]string) bool {
	return props[constants.PropertyAppKey] == constants.PropertyAppValue
}

// HasLegacyTags reports whether the title carries either legacy tag.
func HasLegacyTags(title string) bool {
	for _, tag := range legacyTags {
		if strings.Contains(title, tag) {
			return true
		}
	}
	return false
}

// LegacyClosed reports whether the title carries the legacy closed tag.
func LegacyClosed(title string) bool {
	return strings.Contains(title, constants.LegacyClosedTag)
}

// StripLegacyTags removes both legacy tags, each with one trailing space when
// present. Removal repeats until no tag remains so the result is stable. Only a
// title that carried a tag is trimmed; any other title is returned as is.
func StripLegacyTags(title string) string {
	if !HasLegacyTags(title) {
		return title
	}
	clean := title
	for HasLegacyTags(clean) {
		for _, tag := range legacyTags {
			clean = strings.ReplaceAll(clean, tag+" ", "")
			clean = strings.ReplaceAll(clean, tag, "")
		}
	}
	return strings.TrimSpace(clean)
}

func propertyStatus(_ string, props map[string]string) (models.FormStatus, bool) {
	if !HasPropertyMarker(props) {
		return models.FormStatusUnknown, false
	}
	if props[constants.PropertyStatusKey] == constants.PropertyStatusClosed {
		return models.FormStatusClosed, true
	}
	return models.FormStatusOpen, true
}

func legacyTagStatus(title string, _ map[string]string) (models.FormStatus, bool) {
	switch {
	case strings.Contains(title, constants.LegacyClosedTag):
		return models.FormStatusClosed, true
	case strings.Contains(title, constants.LegacyAppTag):
		return models.FormStatusOpen, true
	default:
		return models.FormStatusUnknown, false
	}
}
