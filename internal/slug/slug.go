// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives URL-safe slugs from post and category titles.
package slug

import (
	"regexp"
	"strings"
)

var (
	// nonWord matches anything outside word characters and spaces.
	// Hyphens in the source title are stripped too; hyphens in the
	// result only ever come from collapsed spaces.
	nonWord = regexp.MustCompile(`[^\w ]+`)
	// spaces matches one or more consecutive spaces.
	spaces = regexp.MustCompile(` +`)
)

// Generate derives a slug from the given title: lowercase, trimmed,
// non-word characters stripped, runs of spaces collapsed to a single
// hyphen. Example: "Hello, World!  2026" becomes "hello-world-2026".
//
// The derivation is deterministic: the same title always yields the
// same slug. Uniqueness is enforced at the store layer, not here.
func Generate(title string) string {
	out := strings.ToLower(strings.TrimSpace(title))
	out = nonWord.ReplaceAllString(out, "")
	out = spaces.ReplaceAllString(out, "-")
	return out
}
