// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug normalizes operator-typed page slugs.
package slug

import (
	"regexp"
	"strings"
)

var (
	// disallowed matches every character that may not appear in a slug.
	disallowed = regexp.MustCompile(`[^a-z0-9-]`)
	// valid matches a normalized, non-empty slug.
	valid = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]*[a-z0-9])?$`)
)

// Normalize lowercases s and replaces each disallowed character with a
// hyphen, then trims leading and trailing hyphens. Runs of hyphens are
// kept as typed.
// Example: " My Page! " → "my-page"
func Normalize(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = disallowed.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Valid reports whether s is already a normalized, non-empty slug.
func Valid(s string) bool {
	return valid.MatchString(s)
}
