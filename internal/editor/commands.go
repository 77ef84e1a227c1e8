// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"fmt"
	"strconv"
	"strings"

	"sitecms/internal/binding"
	"sitecms/internal/docpath"
	"sitecms/internal/document"
	"sitecms/internal/models"
	"sitecms/internal/persist"
	"sitecms/internal/render"
)

// EditText writes the trimmed text of an inline region into the model in
// the editing locale. Concert fields are written untranslated.
func (s *Session) EditText(r binding.Region, value string) error {
	if binding.AffordanceFor(r.Type) != binding.Inline {
		return ErrNotEditable
	}

	s.lock()
	defer s.mu.Unlock()
	value = strings.TrimSpace(value)
	if r.Ref != "" {
		c, ok := s.concerts[r.Ref]
		if !ok {
			return ErrUnknownConcert
		}
		if err := s.model.SetConcertField(c, r.ConcertField(), value); err != nil {
			return err
		}
	} else if err := s.model.SetText(r.Target(), s.locale, value); err != nil {
		return err
	}
	s.touch()
	return nil
}

// concertRef returns the concert a row reference was issued for.
func (s *Session) concertRef(ref string) (*models.Concert, bool) {
	c, ok := s.concerts[ref]
	return c, ok
}

// ListItemAdded is the result of AddListItem.
type ListItemAdded struct {
	Index int    `json:"index"`
	HTML  string `json:"html"`
}

// AddListItem appends a new item to a list region and renders it bound to
// its new index.
func (s *Session) AddListItem(list binding.Region) (*ListItemAdded, error) {
	name, ok := persist.PageName(list.File)
	if !ok {
		return nil, document.ErrUnknownFile
	}

	s.lock()
	defer s.mu.Unlock()
	idx, err := s.model.AddListItem(name, list.Section, list.Field)
	if err != nil {
		return nil, err
	}
	s.touch()

	field := docpath.Parse(list.Field).Append(docpath.Index(idx))
	text, _ := binding.Lookup(s.model, document.Target{File: list.File, Section: list.Section, Field: field}, s.locale)
	html, err := s.fragment(render.ListItem, render.ListItemData{
		File:    list.File,
		Section: list.Section,
		Field:   field.String(),
		Text:    text,
	})
	if err != nil {
		return nil, err
	}
	return &ListItemAdded{Index: idx, HTML: html}, nil
}

// RemoveListItem removes item index of a list region. Items after it are
// re-addressed, so the caller re-binds the list.
func (s *Session) RemoveListItem(list binding.Region, index int) error {
	name, ok := persist.PageName(list.File)
	if !ok {
		return document.ErrUnknownFile
	}

	s.lock()
	defer s.mu.Unlock()
	if err := s.model.RemoveListItem(name, list.Section, list.Field, index); err != nil {
		return err
	}
	s.touch()
	return nil
}

// ConcertAdded is the result of AddConcert.
type ConcertAdded struct {
	Ref   string `json:"ref"`
	Index int    `json:"index"`
	HTML  string `json:"html"`
}

// AddConcert appends a concert dated one month from now with placeholder
// details and renders its row. The row is bound to the new record through
// Ref, which stays valid however the collection is reordered or shrunk.
// scope carries the style-scoping attributes of existing rows.
func (s *Session) AddConcert(scope map[string]string) (*ConcertAdded, error) {
	s.lock()
	defer s.mu.Unlock()

	c := s.model.AddConcert(s.now())
	s.touch()

	s.refSeq++
	ref := "concert-" + strconv.Itoa(s.refSeq)
	s.concerts[ref] = c
	idx := s.model.Concerts().Index(c)

	html, err := s.fragment(render.ConcertRow, render.ConcertRowData{
		Index:       idx,
		Ref:         ref,
		DisplayDate: c.DisplayDate(),
		Venue:       c.Venue,
		City:        c.City,
		Program:     c.Program,
		Scope:       scope,
	})
	if err != nil {
		return nil, err
	}
	return &ConcertAdded{Ref: ref, Index: idx, HTML: html}, nil
}

// EditConcert sets a field of a concert created in this session.
func (s *Session) EditConcert(ref, field, value string) error {
	s.lock()
	defer s.mu.Unlock()
	c, ok := s.concerts[ref]
	if !ok {
		return ErrUnknownConcert
	}
	if err := s.model.SetConcertField(c, field, strings.TrimSpace(value)); err != nil {
		return err
	}
	s.touch()
	return nil
}

// RemoveConcert deletes a concert created in this session.
func (s *Session) RemoveConcert(ref string) error {
	s.lock()
	defer s.mu.Unlock()
	c, ok := s.concerts[ref]
	if !ok {
		return ErrUnknownConcert
	}
	if err := s.model.RemoveConcert(c); err != nil {
		return err
	}
	delete(s.concerts, ref)
	s.touch()
	return nil
}

// RemoveConcertAt deletes the concert rendered at index.
func (s *Session) RemoveConcertAt(index int) error {
	s.lock()
	defer s.mu.Unlock()
	c, err := s.model.RemoveConcertAt(index)
	if err != nil {
		return err
	}
	for ref, rc := range s.concerts {
		if rc == c {
			delete(s.concerts, ref)
		}
	}
	s.touch()
	return nil
}

// SectionAdded is the result of AddSection.
type SectionAdded struct {
	ID   string `json:"id"`
	HTML string `json:"html"`
}

// AddSection appends a section of type typ to the viewed page and renders
// an editable placeholder for it.
func (s *Session) AddSection(typ string) (*SectionAdded, error) {
	s.lock()
	defer s.mu.Unlock()

	key := s.pageKey()
	sec, err := s.model.AddSection(key, typ, s.now())
	if err != nil {
		return nil, err
	}
	s.touch()

	file := persist.PageKey(key)
	fields := render.PlaceholderFields(func(field string) (string, bool) {
		return binding.Lookup(s.model, document.Target{File: file, Section: sec.ID, Field: docpath.Parse(field)}, s.locale)
	})
	html, err := s.fragment(render.SectionPlaceholder, render.SectionData{
		ID:     sec.ID,
		Type:   sec.Type,
		File:   file,
		Fields: fields,
	})
	if err != nil {
		return nil, err
	}
	return &SectionAdded{ID: sec.ID, HTML: html}, nil
}

// DeleteSection removes the section at index of the viewed page and
// returns its id so the rendered region can be dropped.
func (s *Session) DeleteSection(index int) (string, error) {
	s.lock()
	defer s.mu.Unlock()
	sec, err := s.model.DeleteSection(s.pageKey(), index)
	if err != nil {
		return "", err
	}
	s.touch()
	return sec.ID, nil
}

// MoveSection swaps the section at index with its neighbour in direction
// (-1 up, +1 down). Moves past either end do nothing and report false.
func (s *Session) MoveSection(index, direction int) (bool, error) {
	s.lock()
	defer s.mu.Unlock()
	moved, err := s.model.MoveSection(s.pageKey(), index, direction)
	if err != nil || !moved {
		return false, err
	}
	s.touch()
	return true, nil
}

// PageAdded is the result of AddPage.
type PageAdded struct {
	Key  string `json:"key"`
	Path string `json:"path"`
}

// AddPage creates an empty page.
func (s *Session) AddPage(title, slug string) (*PageAdded, error) {
	s.lock()
	defer s.mu.Unlock()
	p, err := s.model.AddPage(title, slug)
	if err != nil {
		return nil, err
	}
	s.touch()
	return &PageAdded{Key: p.Key(), Path: models.PagePath(p.Slug, s.locale, s.model.DefaultLocale())}, nil
}

// DeletePage removes a page once confirmed. When the deleted page is the
// one being viewed, the returned path is the home page to navigate to.
func (s *Session) DeletePage(key string, confirmed bool) (redirect string, err error) {
	if !confirmed {
		return "", ErrConfirmationRequired
	}

	s.lock()
	defer s.mu.Unlock()
	viewing := s.pageKey() == key
	if err := s.model.DeletePage(key); err != nil {
		return "", err
	}
	s.touch()
	if viewing {
		s.route = models.PagePath("", s.locale, s.model.DefaultLocale())
		s.image = nil
		return s.route, nil
	}
	return "", nil
}

// AddLocale activates a language and back-fills its content from the
// default locale.
func (s *Session) AddLocale(code string) error {
	s.lock()
	defer s.mu.Unlock()
	if err := s.model.AddLocale(code); err != nil {
		return err
	}
	s.touch()
	return nil
}

// RemoveLocale deactivates a language once confirmed. Editing falls back
// to the default locale when the removed one was selected.
func (s *Session) RemoveLocale(code string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	s.lock()
	defer s.mu.Unlock()
	if err := s.model.RemoveLocale(code); err != nil {
		return err
	}
	s.touch()
	if s.locale == code {
		s.locale = s.model.DefaultLocale()
	}
	return nil
}

// fragment renders an HTML fragment for a newly created element.
func (s *Session) fragment(name string, data any) (string, error) {
	if s.renderer == nil {
		return "", nil
	}
	html, err := s.renderer.Fragment(name, data)
	if err != nil {
		return "", fmt.Errorf("editor: %w", err)
	}
	return html, nil
}
