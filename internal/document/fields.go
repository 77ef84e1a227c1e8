// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package document

import (
	"sitecms/internal/docpath"
	"sitecms/internal/i18n"
	"sitecms/internal/persist"
)

// Target addresses a field: a document key, an optional section id and a
// path inside the section content (or the document, when there is no
// section).
type Target struct {
	File    string
	Section string
	Field   docpath.Path
}

// SetText writes an edited text value. Page section fields and page titles
// go through the localized write rule for locale; concert fields and plain
// values are written untranslated.
func (m *Model) SetText(t Target, locale, value string) error {
	switch {
	case t.File == persist.KeyConcerts:
		return m.setConcertPath(t.Field, value)
	case t.File == persist.KeySite:
		return m.setSiteField(t.Field, locale, value)
	}

	name, ok := persist.PageName(t.File)
	if !ok {
		return ErrUnknownFile
	}
	if t.Section == "" {
		return m.setPageField(name, t.Field, locale, value)
	}

	sec, err := m.section(name, t.Section)
	if err != nil {
		return err
	}
	current, _ := docpath.Get(sec.Content, t.Field)
	switch current.(type) {
	case map[string]any, []any:
		return ErrNotApplied
	}
	if !docpath.Set(sec.Content, t.Field, i18n.SetLocalized(current, locale, value)) {
		return ErrNotApplied
	}
	return nil
}

// SetPlain writes an untranslated value such as an image URL.
func (m *Model) SetPlain(t Target, value string) error {
	if t.File == persist.KeyConcerts {
		return m.setConcertPath(t.Field, value)
	}
	name, ok := persist.PageName(t.File)
	if !ok || t.Section == "" {
		return ErrUnknownFile
	}
	sec, err := m.section(name, t.Section)
	if err != nil {
		return err
	}
	if !docpath.Set(sec.Content, t.Field, i18n.Plain(value)) {
		return ErrNotApplied
	}
	return nil
}

// setConcertPath handles concerts.<index>.<field>.
func (m *Model) setConcertPath(p docpath.Path, value string) error {
	if len(p) != 3 || p[0].String() != "concerts" || !p[1].IsIndex() || p[2].IsIndex() {
		return ErrNotApplied
	}
	cc := m.pending.Concerts
	i := p[1].Int()
	if i < 0 || i >= len(cc.Concerts) {
		return ErrNotApplied
	}
	return m.SetConcertField(cc.Concerts[i], p[2].String(), value)
}

// setPageField writes a page-level field. Only the title is editable.
func (m *Model) setPageField(name string, p docpath.Path, locale, value string) error {
	page, err := m.page(name)
	if err != nil {
		return err
	}
	if len(p) != 1 || p[0].String() != "title" {
		return ErrNotApplied
	}
	page.Title = i18n.SetLocalized(page.Title, locale, value)
	return nil
}

// setSiteField writes a pass-through site field. Locale-keyed objects get
// the value under locale; anything else is overwritten.
func (m *Model) setSiteField(p docpath.Path, locale, value string) error {
	fields := m.pending.Site.Fields
	if fields == nil || len(p) == 0 {
		return ErrNotApplied
	}
	if current, ok := docpath.Get(fields, p); ok {
		if obj, isObj := current.(map[string]any); isObj {
			obj[locale] = value
			return nil
		}
	}
	if !docpath.Set(fields, p, value) {
		return ErrNotApplied
	}
	return nil
}
