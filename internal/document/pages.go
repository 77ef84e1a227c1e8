// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package document

import (
	"slices"
	"strings"

	"sitecms/internal/i18n"
	"sitecms/internal/models"
	"sitecms/internal/slug"
)

// AddPage appends a new, empty page shown in navigation after every
// existing page. The title is used for every active locale.
func (m *Model) AddPage(title, rawSlug string) (*models.Page, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	s := slug.Normalize(rawSlug)
	if s == "" {
		return nil, ErrSlugRequired
	}
	if _, exists := m.pending.Pages[s]; exists {
		return nil, ErrDuplicateSlug
	}

	maxOrder := 0
	for _, p := range m.pending.Pages {
		maxOrder = max(maxOrder, p.NavOrder)
	}

	page := &models.Page{
		Slug:      s,
		Title:     i18n.Uniform(m.pending.Site.Locales, title),
		ShowInNav: true,
		NavOrder:  maxOrder + 1,
		Sections:  []*models.Section{},
	}
	m.pending.Pages[s] = page
	m.pending.Order = append(m.pending.Order, s)
	return page, nil
}

// DeletePage removes a page from the pending collection. The store copy is
// deleted on the next save. The home page cannot be deleted.
func (m *Model) DeletePage(key string) error {
	page, ok := m.pending.Pages[key]
	if !ok {
		return ErrPageNotFound
	}
	if key == models.HomeKey || page.IsHome() {
		return ErrHomePage
	}
	delete(m.pending.Pages, key)
	m.pending.Order = slices.DeleteFunc(m.pending.Order, func(k string) bool { return k == key })
	return nil
}

// page returns the pending page or ErrPageNotFound.
func (m *Model) page(key string) (*models.Page, error) {
	p, ok := m.pending.Pages[key]
	if !ok {
		return nil, ErrPageNotFound
	}
	return p, nil
}
