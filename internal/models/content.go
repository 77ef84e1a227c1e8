// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"maps"

	"sitecms/internal/i18n"
)

// Content is the field tree of a section. Leaves are i18n.Text for every
// string or localized object, float64 and bool for other scalars; inner
// nodes are map[string]any and []any.
type Content = map[string]any

// Normalize classifies a decoded JSON value once: strings become plain
// text, objects keyed only by catalog locale codes with string values become
// localized text, containers are normalized recursively.
func Normalize(v any) any {
	switch val := v.(type) {
	case string:
		return i18n.Plain(val)
	case map[string]any:
		if isLocaleObject(val) {
			m := make(map[string]string, len(val))
			for k, s := range val {
				m[k] = s.(string)
			}
			return i18n.Localized(m)
		}
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = Normalize(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = Normalize(child)
		}
		return out
	}
	return v
}

// NormalizeContent normalizes every field of a decoded content object.
func NormalizeContent(raw map[string]any) Content {
	out := make(Content, len(raw))
	for k, v := range raw {
		out[k] = Normalize(v)
	}
	return out
}

func isLocaleObject(m map[string]any) bool {
	if len(m) == 0 {
		return false
	}
	for k, v := range m {
		if !i18n.IsCatalogLocale(k) {
			return false
		}
		if _, ok := v.(string); !ok {
			return false
		}
	}
	return true
}

// CloneValue deep-copies a content value.
func CloneValue(v any) any {
	switch val := v.(type) {
	case i18n.Text:
		return val.Clone()
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = CloneValue(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = CloneValue(child)
		}
		return out
	}
	return v
}

// CloneContent deep-copies a section's content.
func CloneContent(c Content) Content {
	if c == nil {
		return nil
	}
	out := make(Content, len(c))
	for k, v := range c {
		out[k] = CloneValue(v)
	}
	return out
}

// cloneFields deep-copies opaque pass-through fields.
func cloneFields(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = CloneValue(v)
	}
	return out
}

func cloneStrings(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}
