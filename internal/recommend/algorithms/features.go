// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package algorithms

import (
	"strings"

	"github.com/tomtom215/vidrec/internal/recommend"
)

// ExtractFeatureText returns the text used for content similarity:
// title, description, tags and channel joined by single spaces.
// Empty fields are skipped. A nil item yields "".
func ExtractFeatureText(item *recommend.ItemMetadata) string {
	if item == nil {
		return ""
	}

	parts := make([]string, 0, 4)
	if item.Title != "" {
		parts = append(parts, item.Title)
	}
	if item.Description != "" {
		parts = append(parts, item.Description)
	}
	if tags := joinTags(item.Tags); tags != "" {
		parts = append(parts, tags)
	}
	if item.Channel != "" {
		parts = append(parts, item.Channel)
	}

	return strings.Join(parts, " ")
}

func joinTags(tags []string) string {
	nonEmpty := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != "" {
			nonEmpty = append(nonEmpty, t)
		}
	}
	return strings.Join(nonEmpty, " ")
}
