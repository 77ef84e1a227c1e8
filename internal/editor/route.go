// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"sitecms/internal/binding"
	"sitecms/internal/document"
	"sitecms/internal/models"
)

// RouteKey returns the page collection key a public path shows. A leading
// segment naming a non-default locale is dropped; the root is the home page.
func RouteKey(path string, locales []string, defaultLocale string) string {
	path = strings.TrimSuffix(path, "/")
	path = strings.TrimPrefix(path, "/")
	first, rest, _ := strings.Cut(path, "/")
	if first != defaultLocale && slices.Contains(locales, first) {
		path = rest
	}
	if path == "" {
		return models.HomeKey
	}
	return path
}

// pageKey returns the collection key of the viewed page.
func (s *Session) pageKey() string {
	return RouteKey(s.route, s.model.Locales(), s.model.DefaultLocale())
}

// SetRoute records the public path the operator is viewing and returns
// the page key it maps to.
func (s *Session) SetRoute(path string) string {
	s.lock()
	defer s.mu.Unlock()
	if path == "" {
		path = "/"
	}
	s.route = path
	s.image = nil
	return s.pageKey()
}

// SelectLocale switches the editing locale. Only active locales can be
// selected.
func (s *Session) SelectLocale(code string) error {
	s.lock()
	defer s.mu.Unlock()
	if !s.model.Site().HasLocale(code) {
		return document.ErrLocaleInactive
	}
	s.locale = code
	s.image = nil
	return nil
}

// Bound is the result of binding a rendered page.
type Bound struct {
	Bindings     []binding.Binding     `json:"bindings"`
	Lists        []binding.List        `json:"lists"`
	ConcertLists []binding.ConcertList `json:"concertLists"`
	SectionIDs   []string              `json:"sectionIds"`
}

// Bind discovers the editable regions of the rendered page the operator
// is viewing and resolves each one against the model in the editing
// locale.
func (s *Session) Bind(r io.Reader) (*Bound, error) {
	page, err := binding.Discover(r)
	if err != nil {
		return nil, fmt.Errorf("bind: %w", err)
	}

	s.lock()
	defer s.mu.Unlock()
	s.page = page
	s.image = nil
	return &Bound{
		Bindings:     binding.Bind(page, s.model, s.locale, s.concertRef),
		Lists:        page.Lists,
		ConcertLists: page.ConcertLists,
		SectionIDs:   page.SectionIDs,
	}, nil
}
