// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"fmt"

	"sitecms/internal/i18n"
)

// HomeKey is the collection key of the page whose slug is empty.
const HomeKey = "home"

// Section types with a default content template.
const (
	SectionHero        = "hero"
	SectionText        = "text"
	SectionTextImage   = "text-image"
	SectionConcertList = "concert-list"
	SectionContactForm = "contact-form"
	SectionCTA         = "cta"
	SectionList        = "list"
)

// Page is a "pages/<key>" document.
type Page struct {
	Slug      string     `json:"slug"`
	Title     i18n.Text  `json:"title"`
	ShowInNav bool       `json:"showInNav"`
	NavOrder  int        `json:"navOrder"`
	Sections  []*Section `json:"sections"`
}

// Section is a typed content block within a page.
type Section struct {
	ID      string  `json:"id"`
	Type    string  `json:"type"`
	Content Content `json:"content"`
}

// UnmarshalJSON decodes a section and classifies its content fields.
func (s *Section) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      string         `json:"id"`
		Type    string         `json:"type"`
		Content map[string]any `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("section: %w", err)
	}
	s.ID = raw.ID
	s.Type = raw.Type
	s.Content = NormalizeContent(raw.Content)
	return nil
}

// PageKey returns the collection key for a slug.
func PageKey(slug string) string {
	if slug == "" {
		return HomeKey
	}
	return slug
}

// Key returns the page's collection key.
func (p *Page) Key() string { return PageKey(p.Slug) }

// IsHome reports whether p is the home page.
func (p *Page) IsHome() bool { return p.Slug == "" || p.Slug == HomeKey }

// SectionIndex returns the position of the section with id, or -1.
func (p *Page) SectionIndex(id string) int {
	for i, s := range p.Sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Section returns the section with id, or nil.
func (p *Page) Section(id string) *Section {
	if i := p.SectionIndex(id); i >= 0 {
		return p.Sections[i]
	}
	return nil
}

// Clone returns a deep copy.
func (p *Page) Clone() *Page {
	if p == nil {
		return nil
	}
	out := &Page{
		Slug:      p.Slug,
		Title:     p.Title.Clone(),
		ShowInNav: p.ShowInNav,
		NavOrder:  p.NavOrder,
		Sections:  make([]*Section, len(p.Sections)),
	}
	for i, s := range p.Sections {
		out.Sections[i] = s.Clone()
	}
	return out
}

// Clone returns a deep copy.
func (s *Section) Clone() *Section {
	if s == nil {
		return nil
	}
	return &Section{ID: s.ID, Type: s.Type, Content: CloneContent(s.Content)}
}

// MarshalJSON writes an empty sections array rather than null.
func (p Page) MarshalJSON() ([]byte, error) {
	type page Page
	out := page(p)
	if out.Sections == nil {
		out.Sections = []*Section{}
	}
	return json.Marshal(out)
}

// MarshalJSON writes an empty content object rather than null.
func (s Section) MarshalJSON() ([]byte, error) {
	type section Section
	out := section(s)
	if out.Content == nil {
		out.Content = Content{}
	}
	return json.Marshal(out)
}
