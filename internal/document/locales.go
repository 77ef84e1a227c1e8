// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package document

import (
	"slices"

	"sitecms/internal/i18n"
)

// AddLocale activates a catalog language and back-fills it: every
// localized page title and section field that has a default-locale value
// but no value for code receives a copy of the default-locale value.
func (m *Model) AddLocale(code string) error {
	site := m.pending.Site
	if !i18n.IsLocaleCode(code) || !i18n.InCatalog(code) {
		return ErrUnknownLocale
	}
	if site.HasLocale(code) {
		return ErrLocaleActive
	}
	if len(site.Locales) >= i18n.MaxActive {
		return ErrLocaleLimit
	}

	site.Locales = append(site.Locales, code)
	if site.LocaleNames == nil {
		site.LocaleNames = map[string]string{}
	}
	site.LocaleNames[code] = i18n.DisplayName(code)

	from := site.DefaultLocale
	for _, page := range m.pending.Pages {
		page.Title, _ = page.Title.BackFill(code, from)
		for _, sec := range page.Sections {
			backFillMap(sec.Content, code, from)
		}
	}
	return nil
}

// RemoveLocale deactivates a locale. Stored translations are left in the
// content. The default locale cannot be removed.
func (m *Model) RemoveLocale(code string) error {
	site := m.pending.Site
	if !site.HasLocale(code) {
		return ErrLocaleInactive
	}
	if code == site.DefaultLocale {
		return ErrDefaultLocale
	}
	site.Locales = slices.DeleteFunc(site.Locales, func(l string) bool { return l == code })
	delete(site.LocaleNames, code)
	return nil
}

// backFillMap back-fills localized text in a keyed mapping and recurses
// into nested mappings and lists.
func backFillMap(m map[string]any, locale, from string) {
	for k, v := range m {
		if out, ok := backFillValue(v, locale, from); ok {
			m[k] = out
		}
	}
}

// backFillList back-fills the localized elements of a list in place.
func backFillList(items []any, locale, from string) {
	for i, v := range items {
		if out, ok := backFillValue(v, locale, from); ok {
			items[i] = out
		}
	}
}

// backFillValue returns the replacement for a text leaf. Containers are
// updated in place and report false.
func backFillValue(v any, locale, from string) (any, bool) {
	switch val := v.(type) {
	case i18n.Text:
		return val.BackFill(locale, from)
	case map[string]any:
		backFillMap(val, locale, from)
	case []any:
		backFillList(val, locale, from)
	}
	return nil, false
}
