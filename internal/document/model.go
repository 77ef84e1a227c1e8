// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package document is the editable content model of a site: the site
// config, the concert collection and the ordered page collection, each
// held as a pending working copy next to the last-synced snapshot.
// Mutations only touch the pending copies. Diff compares both to build a
// save batch.
//
// A Model is not safe for concurrent use; the editor session serializes
// access to it.
package document

import (
	"fmt"
	"slices"

	"github.com/google/go-cmp/cmp"

	"sitecms/internal/i18n"
	"sitecms/internal/models"
	"sitecms/internal/persist"
)

// Snapshot is a deep copy of all documents.
type Snapshot struct {
	Site     *models.SiteConfig
	Concerts *models.ConcertCollection
	Pages    map[string]*models.Page
	Order    []string
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Site:     s.Site.Clone(),
		Concerts: s.Concerts.Clone(),
		Pages:    make(map[string]*models.Page, len(s.Pages)),
		Order:    slices.Clone(s.Order),
	}
	for k, p := range s.Pages {
		out.Pages[k] = p.Clone()
	}
	return out
}

// Model holds the pending and synced copies of every document.
type Model struct {
	pending Snapshot
	synced  Snapshot
}

// New builds a model from loaded documents. Pages are keyed by their
// collection key and keep the given order.
func New(site *models.SiteConfig, concerts *models.ConcertCollection, pages []*models.Page) (*Model, error) {
	if site == nil {
		return nil, fmt.Errorf("new model: site config is required")
	}
	if err := site.Validate(); err != nil {
		return nil, fmt.Errorf("new model: %w", err)
	}
	if concerts == nil {
		concerts = &models.ConcertCollection{}
	}

	snap := Snapshot{
		Site:     site.Clone(),
		Concerts: concerts.Clone(),
		Pages:    make(map[string]*models.Page, len(pages)),
	}
	for _, p := range pages {
		key := p.Key()
		if _, dup := snap.Pages[key]; dup {
			return nil, fmt.Errorf("new model: duplicate page %q", key)
		}
		snap.Pages[key] = p.Clone()
		snap.Order = append(snap.Order, key)
	}

	return &Model{pending: snap, synced: snap.Clone()}, nil
}

// Site returns the pending site config.
func (m *Model) Site() *models.SiteConfig { return m.pending.Site }

// Concerts returns the pending concert collection.
func (m *Model) Concerts() *models.ConcertCollection { return m.pending.Concerts }

// Page returns the pending page with the given collection key.
func (m *Model) Page(key string) (*models.Page, bool) {
	p, ok := m.pending.Pages[key]
	return p, ok
}

// PageKeys returns the pending page keys in collection order.
func (m *Model) PageKeys() []string { return slices.Clone(m.pending.Order) }

// Pages returns the pending pages in collection order.
func (m *Model) Pages() []*models.Page {
	out := make([]*models.Page, 0, len(m.pending.Order))
	for _, k := range m.pending.Order {
		out = append(out, m.pending.Pages[k])
	}
	return out
}

// Locales returns the active locales.
func (m *Model) Locales() []string { return slices.Clone(m.pending.Site.Locales) }

// DefaultLocale returns the site's default locale.
func (m *Model) DefaultLocale() string { return m.pending.Site.DefaultLocale }

// Resolve resolves a content value in locale with the site's fallback.
func (m *Model) Resolve(field any, locale string) string {
	return i18n.Resolve(field, locale, m.pending.Site.DefaultLocale)
}

// Pending returns a deep copy of the pending documents.
func (m *Model) Pending() Snapshot { return m.pending.Clone() }

// Synced returns a deep copy of the last-synced documents.
func (m *Model) Synced() Snapshot { return m.synced.Clone() }

// MarkSynced makes sent the new last-synced state. sent must be the
// snapshot the save batch was built from.
func (m *Model) MarkSynced(sent Snapshot) {
	m.synced = sent.Clone()
}

var equalOpts = cmp.Options{
	cmp.Comparer(func(a, b i18n.Text) bool { return a.Equal(b) }),
}

// Equal reports deep structural equality of two documents.
func Equal(a, b any) bool {
	return cmp.Equal(a, b, equalOpts)
}

// Changed reports whether any document differs from the synced state.
func (m *Model) Changed() bool {
	if !Equal(m.pending.Site, m.synced.Site) || !Equal(m.pending.Concerts, m.synced.Concerts) {
		return true
	}
	if !slices.Equal(m.pending.Order, m.synced.Order) {
		return true
	}
	for k, p := range m.pending.Pages {
		if !Equal(p, m.synced.Pages[k]) {
			return true
		}
	}
	return false
}

// Diff builds the save batch from a copy of the pending state: the site
// config and concerts when they differ from the synced copies, every
// pending page, and a tombstone for every synced page no longer pending.
// The returned snapshot is what the batch was built from.
func (m *Model) Diff() (*persist.Batch, Snapshot, error) {
	sent := m.pending.Clone()
	batch := persist.NewBatch()

	if !Equal(sent.Site, m.synced.Site) {
		if err := batch.PutValue(persist.KeySite, sent.Site); err != nil {
			return nil, Snapshot{}, err
		}
	}
	if !Equal(sent.Concerts, m.synced.Concerts) {
		if err := batch.PutValue(persist.KeyConcerts, sent.Concerts); err != nil {
			return nil, Snapshot{}, err
		}
	}
	for _, key := range sent.Order {
		if err := batch.PutValue(persist.PageKey(key), sent.Pages[key]); err != nil {
			return nil, Snapshot{}, err
		}
	}
	for _, key := range m.synced.Order {
		if _, ok := sent.Pages[key]; !ok {
			batch.Delete(persist.PageKey(key))
		}
	}
	return batch, sent, nil
}
