// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"inkwell/internal/apierr"
)

const (
	maxTitleLen   = 100
	maxExcerptLen = 200
)

// validateTitle enforces presence and the length cap.
func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return apierr.Validation("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return apierr.Validation("title must be %d characters or fewer", maxTitleLen)
	}
	return nil
}

// validateExcerpt enforces the length cap; the excerpt itself is optional.
func validateExcerpt(excerpt string) error {
	if utf8.RuneCountInString(excerpt) > maxExcerptLen {
		return apierr.Validation("excerpt must be %d characters or fewer", maxExcerptLen)
	}
	return nil
}

// normalizeTags accepts the tags field as either a JSON array of strings
// or a single comma-separated string, returning a trimmed list with
// empty entries dropped. A nil raw value yields an empty list.
func normalizeTags(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return cleanTags(list), nil
	}

	var joined string
	if err := json.Unmarshal(raw, &joined); err == nil {
		return cleanTags(strings.Split(joined, ",")), nil
	}

	return nil, apierr.Validation("tags must be a list of strings or a comma-separated string")
}

func cleanTags(tags []string) []string {
	out := []string{}
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
