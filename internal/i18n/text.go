// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package i18n models translatable text. A Text is either a plain string
// that reads the same in every locale or a mapping from locale code to
// string. Resolution always falls back to the site's default locale.
package i18n

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Text is a field value that is either plain or localized.
type Text struct {
	plain   string
	locales map[string]string
}

// Plain returns a locale-invariant text.
func Plain(s string) Text { return Text{plain: s} }

// Localized returns a per-locale text. The map is copied.
func Localized(m map[string]string) Text {
	out := make(map[string]string, len(m))
	maps.Copy(out, m)
	return Text{locales: out}
}

// Uniform returns a localized text holding the same value for every locale.
func Uniform(locales []string, value string) Text {
	m := make(map[string]string, len(locales))
	for _, l := range locales {
		m[l] = value
	}
	return Text{locales: m}
}

// IsLocalized reports whether the text carries per-locale values.
func (t Text) IsLocalized() bool { return t.locales != nil }

// Get returns the raw value stored for a locale, without fallback.
func (t Text) Get(locale string) (string, bool) {
	if t.locales == nil {
		return "", false
	}
	v, ok := t.locales[locale]
	return v, ok
}

// String returns the plain value, or an empty string for localized text.
func (t Text) String() string { return t.plain }

// Locales returns the locale codes present, sorted.
func (t Text) Locales() []string {
	return slices.Sorted(maps.Keys(t.locales))
}

// Resolve returns the value for locale. Plain text is returned verbatim.
// Localized text returns the locale's value if present and non-empty,
// otherwise the default locale's value, otherwise "".
func (t Text) Resolve(locale, defaultLocale string) string {
	if t.locales == nil {
		return t.plain
	}
	if v := t.locales[locale]; v != "" {
		return v
	}
	return t.locales[defaultLocale]
}

// Set writes value for locale. Localized text gains or replaces the locale
// entry and keeps the others; plain text is overwritten and stays plain.
func (t Text) Set(locale, value string) Text {
	if t.locales == nil {
		return Plain(value)
	}
	out := t.Clone()
	out.locales[locale] = value
	return out
}

// BackFill copies the value under from into locale when from is present and
// locale is not. The boolean reports whether anything was copied.
func (t Text) BackFill(locale, from string) (Text, bool) {
	if t.locales == nil {
		return t, false
	}
	src, ok := t.locales[from]
	if !ok {
		return t, false
	}
	if _, exists := t.locales[locale]; exists {
		return t, false
	}
	out := t.Clone()
	out.locales[locale] = src
	return out, true
}

// Clone returns a deep copy.
func (t Text) Clone() Text {
	if t.locales == nil {
		return Text{plain: t.plain}
	}
	return Localized(t.locales)
}

// Equal reports structural equality.
func (t Text) Equal(o Text) bool {
	if (t.locales == nil) != (o.locales == nil) {
		return false
	}
	if t.locales == nil {
		return t.plain == o.plain
	}
	return maps.Equal(t.locales, o.locales)
}

// MarshalJSON encodes plain text as a JSON string and localized text as a
// JSON object.
func (t Text) MarshalJSON() ([]byte, error) {
	if t.locales != nil {
		return json.Marshal(t.locales)
	}
	return json.Marshal(t.plain)
}

// UnmarshalJSON accepts a JSON string, a JSON object of strings, or null.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = Text{}
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("localized text: %w", err)
		}
		if m == nil {
			m = map[string]string{}
		}
		*t = Text{locales: m}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("plain text: %w", err)
	}
	*t = Text{plain: s}
	return nil
}

// Resolve resolves an arbitrary content value. Absent values resolve to "",
// Text resolves per Text.Resolve, plain strings are returned verbatim and
// anything else resolves to "".
func Resolve(field any, locale, defaultLocale string) string {
	switch v := field.(type) {
	case nil:
		return ""
	case Text:
		return v.Resolve(locale, defaultLocale)
	case string:
		return v
	}
	return ""
}

// SetLocalized returns the value that results from writing value under
// locale into current. Localized text keeps its other locales; anything
// else is replaced by plain text.
func SetLocalized(current any, locale, value string) Text {
	if t, ok := current.(Text); ok {
		return t.Set(locale, value)
	}
	return Plain(value)
}
