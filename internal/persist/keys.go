// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package persist

import (
	"strings"

	"sitecms/internal/slug"
)

// Document keys.
const (
	KeySite     = "site"
	KeyConcerts = "concerts"
	KeyManifest = "pages-manifest"
	PagePrefix  = "pages/"
)

// DefaultPages is the page list assumed when no pages manifest exists.
var DefaultPages = []string{"home", "bio", "concerts", "contact"}

// PageKey returns the document key of a page collection entry.
func PageKey(name string) string { return PagePrefix + name }

// PageName returns the collection key of a page document key.
func PageName(key string) (string, bool) {
	name, ok := strings.CutPrefix(key, PagePrefix)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// ValidKey reports whether key may be written through a batch: "site",
// "concerts" or "pages/" followed by a normalized slug.
func ValidKey(key string) bool {
	switch key {
	case KeySite, KeyConcerts:
		return true
	}
	name, ok := PageName(key)
	return ok && slug.Valid(name)
}
