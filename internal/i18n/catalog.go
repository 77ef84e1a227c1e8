// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package i18n

import (
	"regexp"
	"slices"
	"strings"
)

// MaxActive is the number of locales a site may have enabled at once.
const MaxActive = 3

// Language is an entry of the locale catalog.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Catalog lists the languages an operator can enable.
var Catalog = []Language{
	{Code: "en", Name: "English"},
	{Code: "nl", Name: "Nederlands"},
	{Code: "de", Name: "Deutsch"},
	{Code: "fr", Name: "Français"},
	{Code: "es", Name: "Español"},
	{Code: "it", Name: "Italiano"},
	{Code: "pt", Name: "Português"},
}

// localeCode matches "en" or "pt-BR" style codes.
var localeCode = regexp.MustCompile(`^[a-z]{2}(-[A-Z]{2})?$`)

// IsLocaleCode reports whether s looks like a locale code.
func IsLocaleCode(s string) bool {
	return localeCode.MatchString(s)
}

// IsCatalogLocale reports whether s is a locale code whose language is in
// the catalog, e.g. "nl" or "pt-BR". Content objects whose keys all pass
// this check are treated as localized text.
func IsCatalogLocale(s string) bool {
	if !IsLocaleCode(s) {
		return false
	}
	lang, _, _ := strings.Cut(s, "-")
	return InCatalog(lang)
}

// InCatalog reports whether code is a catalog language.
func InCatalog(code string) bool {
	return slices.ContainsFunc(Catalog, func(l Language) bool { return l.Code == code })
}

// DisplayName returns the catalog name for code, or the code itself.
func DisplayName(code string) string {
	for _, l := range Catalog {
		if l.Code == code {
			return l.Name
		}
	}
	return code
}

// Available returns catalog languages not already active.
func Available(active []string) []Language {
	var out []Language
	for _, l := range Catalog {
		if !slices.Contains(active, l.Code) {
			out = append(out, l)
		}
	}
	return out
}
