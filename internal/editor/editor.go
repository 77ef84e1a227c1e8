// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package editor runs in-page editing sessions. A Session owns a document
// model, the editing locale, the page being viewed, the dirty flag and the
// save credential. Every operator gesture maps to one Session method; each
// runs to completion under the session lock before the next one starts.
package editor

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"sitecms/internal/binding"
	"sitecms/internal/document"
	"sitecms/internal/i18n"
	"sitecms/internal/models"
	"sitecms/internal/render"
)

var (
	// ErrSaveInProgress is returned when a save is started while another
	// save of the same session has not finished.
	ErrSaveInProgress = errors.New("a save is already in progress")
	// ErrReauthenticate is returned when the save credential is missing or
	// was rejected. The stored credential has been discarded.
	ErrReauthenticate = errors.New("session expired, please log in again")
	// ErrConfirmationRequired is returned by destructive commands that
	// were not confirmed by the operator.
	ErrConfirmationRequired = errors.New("confirmation required")
	// ErrNoImageEditor is returned when applying with no image editor open.
	ErrNoImageEditor = errors.New("no image editor is open")
	// ErrUnknownConcert is returned for a concert reference this session
	// did not create or already removed.
	ErrUnknownConcert = errors.New("unknown concert reference")
	// ErrNotEditable is returned for a region whose type has no matching
	// affordance.
	ErrNotEditable = errors.New("region is not editable this way")
)

// Session is one operator's editing session.
type Session struct {
	id string

	mu       sync.Mutex
	model    *document.Model
	renderer *render.Renderer
	saver    Saver
	now      func() time.Time

	locale     string
	route      string
	credential string
	dirty      bool
	gen        uint64
	saving     bool
	page       *binding.Page
	image      *ImageEditor
	concerts   map[string]*models.Concert
	refSeq     int
	lastUsed   time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithSaver sets the persistence boundary used by Save.
func WithSaver(sv Saver) Option { return func(s *Session) { s.saver = sv } }

// WithRenderer sets the fragment renderer.
func WithRenderer(r *render.Renderer) Option { return func(s *Session) { s.renderer = r } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(s *Session) { s.now = now } }

// WithCredential stores the bearer credential presented on save.
func WithCredential(token string) Option { return func(s *Session) { s.credential = token } }

// NewSession starts a session over a loaded model. The editing locale is
// the site's default locale and the route is the home page.
func NewSession(model *document.Model, opts ...Option) *Session {
	s := &Session{
		id:       uuid.NewString(),
		model:    model,
		now:      time.Now,
		locale:   model.DefaultLocale(),
		route:    "/",
		concerts: make(map[string]*models.Concert),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lastUsed = s.now()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Model returns the session's document model. Callers must not mutate it
// outside the session's commands.
func (s *Session) Model() *document.Model { return s.model }

// Dirty reports whether there are unsaved changes.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Locale returns the editing locale.
func (s *Session) Locale() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locale
}

// idleSince returns when the session last handled a command.
func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// lock acquires the session for one command.
func (s *Session) lock() {
	s.mu.Lock()
	s.lastUsed = s.now()
}

// touch marks the model changed.
func (s *Session) touch() {
	s.dirty = true
	s.gen++
}

// LocaleState describes one active locale.
type LocaleState struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Default  bool   `json:"default"`
	Selected bool   `json:"selected"`
}

// PageItem is one entry of the page list.
type PageItem struct {
	Key       string `json:"key"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Path      string `json:"path"`
	Active    bool   `json:"active"`
	Deletable bool   `json:"deletable"`
}

// SectionItem is one entry of the section list of the viewed page.
type SectionItem struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Index       int    `json:"index"`
	CanMoveUp   bool   `json:"canMoveUp"`
	CanMoveDown bool   `json:"canMoveDown"`
}

// State is everything the editor toolbar and sidebar display.
type State struct {
	ID            string           `json:"id"`
	Locale        string           `json:"locale"`
	DefaultLocale string           `json:"defaultLocale"`
	Locales       []LocaleState    `json:"locales"`
	Available     []i18n.Language  `json:"available"`
	CanAddLocale  bool             `json:"canAddLocale"`
	Route         string           `json:"route"`
	PageKey       string           `json:"pageKey"`
	Pages         []PageItem       `json:"pages"`
	Sections      []SectionItem    `json:"sections"`
	Nav           []models.NavItem `json:"nav"`
	SectionTypes  []string         `json:"sectionTypes"`
	Dirty         bool             `json:"dirty"`
	Saving        bool             `json:"saving"`
	Authenticated bool             `json:"authenticated"`
	ImageEditor   *ImageEditor     `json:"imageEditor,omitempty"`
}

// State returns a snapshot of the session for display.
func (s *Session) State() State {
	s.lock()
	defer s.mu.Unlock()
	return s.state()
}

func (s *Session) state() State {
	m := s.model
	def := m.DefaultLocale()
	active := m.Locales()
	current := s.pageKey()

	st := State{
		ID:            s.id,
		Locale:        s.locale,
		DefaultLocale: def,
		Available:     i18n.Available(active),
		CanAddLocale:  len(active) < i18n.MaxActive,
		Route:         s.route,
		PageKey:       current,
		Nav:           models.NavItems(m.Pages(), s.locale, def),
		SectionTypes:  models.SectionTypes,
		Dirty:         s.dirty,
		Saving:        s.saving,
		Authenticated: s.credential != "",
		ImageEditor:   s.image,
	}
	for _, code := range active {
		st.Locales = append(st.Locales, LocaleState{
			Code:     code,
			Name:     m.Site().LocaleName(code),
			Default:  code == def,
			Selected: code == s.locale,
		})
	}
	for _, p := range m.Pages() {
		key := p.Key()
		title := p.Title.Resolve(s.locale, def)
		if title == "" {
			title = key
		}
		st.Pages = append(st.Pages, PageItem{
			Key:       key,
			Title:     title,
			Slug:      p.Slug,
			Path:      models.PagePath(p.Slug, s.locale, def),
			Active:    key == current,
			Deletable: !p.IsHome() && key != models.HomeKey,
		})
	}
	if p, ok := m.Page(current); ok {
		n := len(p.Sections)
		for i, sec := range p.Sections {
			st.Sections = append(st.Sections, SectionItem{
				ID:          sec.ID,
				Type:        sec.Type,
				Index:       i,
				CanMoveUp:   i > 0,
				CanMoveDown: i < n-1,
			})
		}
	}
	return st
}
