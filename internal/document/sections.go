// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package document

import (
	"slices"
	"strconv"
	"time"

	"sitecms/internal/docpath"
	"sitecms/internal/i18n"
	"sitecms/internal/models"
)

// NewItemText is the placeholder of an added list item.
const NewItemText = "New item"

// AddSection appends a section of type typ with its default content. The id
// is typ-<unix millis>; if another section of the page already uses it the
// timestamp is advanced to the next free millisecond.
func (m *Model) AddSection(pageKey, typ string, now time.Time) (*models.Section, error) {
	page, err := m.page(pageKey)
	if err != nil {
		return nil, err
	}
	content, ok := models.DefaultContent(typ, m.pending.Site.Locales)
	if !ok {
		return nil, ErrSectionType
	}

	ms := now.UnixMilli()
	id := typ + "-" + strconv.FormatInt(ms, 10)
	for page.SectionIndex(id) >= 0 {
		ms++
		id = typ + "-" + strconv.FormatInt(ms, 10)
	}

	sec := &models.Section{ID: id, Type: typ, Content: content}
	page.Sections = append(page.Sections, sec)
	return sec, nil
}

// DeleteSection removes the section at index.
func (m *Model) DeleteSection(pageKey string, index int) (*models.Section, error) {
	page, err := m.page(pageKey)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(page.Sections) {
		return nil, ErrIndexRange
	}
	removed := page.Sections[index]
	page.Sections = slices.Delete(page.Sections, index, index+1)
	return removed, nil
}

// MoveSection swaps the section at index with its neighbour in direction
// (-1 up, +1 down). It reports false without changing anything when the
// target position is out of bounds.
func (m *Model) MoveSection(pageKey string, index, direction int) (bool, error) {
	if direction != -1 && direction != 1 {
		return false, ErrDirection
	}
	page, err := m.page(pageKey)
	if err != nil {
		return false, err
	}
	target := index + direction
	if index < 0 || index >= len(page.Sections) || target < 0 || target >= len(page.Sections) {
		return false, nil
	}
	page.Sections[index], page.Sections[target] = page.Sections[target], page.Sections[index]
	return true, nil
}

// section returns a pending section of a page.
func (m *Model) section(pageKey, sectionID string) (*models.Section, error) {
	page, err := m.page(pageKey)
	if err != nil {
		return nil, err
	}
	sec := page.Section(sectionID)
	if sec == nil {
		return nil, ErrSectionNotFound
	}
	return sec, nil
}

// list returns the sequence at field of a section.
func (m *Model) list(pageKey, sectionID, field string) (*models.Section, docpath.Path, []any, error) {
	sec, err := m.section(pageKey, sectionID)
	if err != nil {
		return nil, nil, nil, err
	}
	path := docpath.Parse(field)
	v, ok := docpath.Get(map[string]any(sec.Content), path)
	if !ok {
		return nil, nil, nil, ErrNotAList
	}
	items, ok := v.([]any)
	if !ok {
		return nil, nil, nil, ErrNotAList
	}
	return sec, path, items, nil
}

// AddListItem appends a "New item" entry, one value per active locale, to
// the list at field and returns its index.
func (m *Model) AddListItem(pageKey, sectionID, field string) (int, error) {
	sec, path, items, err := m.list(pageKey, sectionID, field)
	if err != nil {
		return 0, err
	}
	items = append(items, i18n.Uniform(m.pending.Site.Locales, NewItemText))
	if !docpath.Set(map[string]any(sec.Content), path, items) {
		return 0, ErrNotApplied
	}
	return len(items) - 1, nil
}

// RemoveListItem removes element index of the list at field.
func (m *Model) RemoveListItem(pageKey, sectionID, field string, index int) error {
	sec, path, items, err := m.list(pageKey, sectionID, field)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(items) {
		return ErrIndexRange
	}
	items = slices.Delete(slices.Clone(items), index, index+1)
	if !docpath.Set(map[string]any(sec.Content), path, items) {
		return ErrNotApplied
	}
	return nil
}
