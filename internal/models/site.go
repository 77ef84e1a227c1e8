// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"fmt"
	"slices"
)

// SiteConfig is the "site" document. Locale settings are typed; every other
// key (siteTitle, copyrightName, socialLinks, ...) is carried in Fields and
// written back unmodified.
type SiteConfig struct {
	DefaultLocale string
	Locales       []string
	LocaleNames   map[string]string
	Fields        map[string]any
}

// siteKnownKeys are the keys decoded into typed fields.
var siteKnownKeys = []string{"defaultLocale", "locales", "localeNames"}

// UnmarshalJSON decodes the typed locale keys and keeps the rest verbatim.
func (s *SiteConfig) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("site config: %w", err)
	}

	var out SiteConfig
	if v, ok := raw["defaultLocale"]; ok {
		if err := json.Unmarshal(v, &out.DefaultLocale); err != nil {
			return fmt.Errorf("site defaultLocale: %w", err)
		}
	}
	if v, ok := raw["locales"]; ok {
		if err := json.Unmarshal(v, &out.Locales); err != nil {
			return fmt.Errorf("site locales: %w", err)
		}
	}
	if v, ok := raw["localeNames"]; ok {
		if err := json.Unmarshal(v, &out.LocaleNames); err != nil {
			return fmt.Errorf("site localeNames: %w", err)
		}
	}
	if out.LocaleNames == nil {
		out.LocaleNames = map[string]string{}
	}

	out.Fields = map[string]any{}
	for k, v := range raw {
		if slices.Contains(siteKnownKeys, k) {
			continue
		}
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return fmt.Errorf("site %s: %w", k, err)
		}
		out.Fields[k] = val
	}

	*s = out
	return nil
}

// MarshalJSON writes the typed keys merged with the pass-through fields.
func (s SiteConfig) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Fields)+len(siteKnownKeys))
	for k, v := range s.Fields {
		out[k] = v
	}
	out["defaultLocale"] = s.DefaultLocale
	locales := s.Locales
	if locales == nil {
		locales = []string{}
	}
	out["locales"] = locales
	names := s.LocaleNames
	if names == nil {
		names = map[string]string{}
	}
	out["localeNames"] = names
	return json.Marshal(out)
}

// Validate checks the locale invariants.
func (s *SiteConfig) Validate() error {
	if s.DefaultLocale == "" {
		return fmt.Errorf("site config: defaultLocale is empty")
	}
	if !slices.Contains(s.Locales, s.DefaultLocale) {
		return fmt.Errorf("site config: defaultLocale %q is not an active locale", s.DefaultLocale)
	}
	seen := make(map[string]bool, len(s.Locales))
	for _, l := range s.Locales {
		if seen[l] {
			return fmt.Errorf("site config: duplicate locale %q", l)
		}
		seen[l] = true
	}
	return nil
}

// HasLocale reports whether code is active.
func (s *SiteConfig) HasLocale(code string) bool {
	return slices.Contains(s.Locales, code)
}

// LocaleName returns the configured display name for code.
func (s *SiteConfig) LocaleName(code string) string {
	if n := s.LocaleNames[code]; n != "" {
		return n
	}
	return code
}

// Clone returns a deep copy.
func (s *SiteConfig) Clone() *SiteConfig {
	if s == nil {
		return nil
	}
	return &SiteConfig{
		DefaultLocale: s.DefaultLocale,
		Locales:       slices.Clone(s.Locales),
		LocaleNames:   cloneStrings(s.LocaleNames),
		Fields:        cloneFields(s.Fields),
	}
}
