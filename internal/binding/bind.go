// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package binding

import (
	"sitecms/internal/docpath"
	"sitecms/internal/document"
	"sitecms/internal/models"
	"sitecms/internal/persist"
)

// Binding pairs a discovered region with the model value it edits. Regions
// whose path does not resolve are reported unbound and get no affordance.
type Binding struct {
	Region
	Model string `json:"model"`
	Bound bool   `json:"bound"`
}

// ConcertRefs resolves the concert record a row reference names.
type ConcertRefs func(ref string) (*models.Concert, bool)

// Bind resolves every editable region of p against the pending model in
// locale. Regions carrying a concert reference are resolved through refs
// and stay unbound when refs does not know them.
func Bind(p *Page, m *document.Model, locale string, refs ConcertRefs) []Binding {
	out := make([]Binding, 0, len(p.Regions))
	for _, r := range p.Regions {
		var v string
		var ok bool
		if r.Ref != "" {
			if refs != nil {
				if c, found := refs(r.Ref); found && m.Concerts().Index(c) >= 0 {
					v, ok = c.Field(r.ConcertField())
				}
			}
		} else {
			v, ok = Lookup(m, r.Target(), locale)
		}
		b := Binding{Region: r, Model: v, Bound: ok}
		if !ok {
			b.Affordance = None
		}
		out = append(out, b)
	}
	return out
}

// Lookup reads the value a target addresses, resolved for locale.
func Lookup(m *document.Model, t document.Target, locale string) (string, bool) {
	switch t.File {
	case persist.KeyConcerts:
		p := t.Field
		if len(p) != 3 || !p[1].IsIndex() {
			return "", false
		}
		cc := m.Concerts().Concerts
		i := p[1].Int()
		if i < 0 || i >= len(cc) {
			return "", false
		}
		return cc[i].Field(p[2].String())
	case persist.KeySite:
		v, ok := docpath.Get(m.Site().Fields, t.Field)
		if !ok {
			return "", false
		}
		if obj, isObj := v.(map[string]any); isObj {
			s, _ := obj[locale].(string)
			if s == "" {
				s, _ = obj[m.DefaultLocale()].(string)
			}
			return s, true
		}
		s, ok := v.(string)
		return s, ok
	}

	name, ok := persist.PageName(t.File)
	if !ok {
		return "", false
	}
	page, ok := m.Page(name)
	if !ok {
		return "", false
	}
	if t.Section == "" {
		if len(t.Field) == 1 && t.Field[0].String() == "title" {
			return m.Resolve(page.Title, locale), true
		}
		return "", false
	}
	sec := page.Section(t.Section)
	if sec == nil {
		return "", false
	}
	v, ok := docpath.Get(sec.Content, t.Field)
	if !ok {
		return "", false
	}
	return m.Resolve(v, locale), true
}
