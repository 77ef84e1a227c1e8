// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"sitecms/internal/document"
	"sitecms/internal/models"
	"sitecms/internal/persist"
)

// Source fetches raw content documents by key. Absent documents are
// reported with persist.ErrNotFound.
type Source interface {
	Fetch(ctx context.Context, key string) (json.RawMessage, error)
}

// Loader builds a document model from a Source.
type Loader struct {
	source Source
}

// NewLoader creates a loader reading from source.
func NewLoader(source Source) *Loader {
	return &Loader{source: source}
}

// Manifest returns the page keys to load. A missing or unreadable
// manifest yields persist.DefaultPages.
func (l *Loader) Manifest(ctx context.Context) []string {
	raw, err := l.source.Fetch(ctx, persist.KeyManifest)
	if err != nil {
		if !errors.Is(err, persist.ErrNotFound) {
			slog.Warn("pages manifest unavailable, using defaults", "error", err)
		}
		return append([]string(nil), persist.DefaultPages...)
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil || len(names) == 0 {
		slog.Warn("pages manifest invalid, using defaults", "error", err)
		return append([]string(nil), persist.DefaultPages...)
	}
	return names
}

// Load fetches the site config, the concerts and every manifest page.
// Site config and concerts are required. Missing pages are skipped; any
// other failure aborts.
func (l *Loader) Load(ctx context.Context) (*document.Model, error) {
	var site models.SiteConfig
	if err := l.fetchJSON(ctx, persist.KeySite, &site); err != nil {
		return nil, fmt.Errorf("load site: %w", err)
	}

	concerts := &models.ConcertCollection{}
	if err := l.fetchJSON(ctx, persist.KeyConcerts, concerts); err != nil {
		return nil, fmt.Errorf("load concerts: %w", err)
	}

	var pages []*models.Page
	for _, name := range l.Manifest(ctx) {
		var p models.Page
		err := l.fetchJSON(ctx, persist.PageKey(name), &p)
		if errors.Is(err, persist.ErrNotFound) {
			slog.Debug("page listed in manifest not found", "page", name)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load page %s: %w", name, err)
		}
		pages = append(pages, &p)
	}

	m, err := document.New(&site, concerts, pages)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return m, nil
}

func (l *Loader) fetchJSON(ctx context.Context, key string, v any) error {
	raw, err := l.source.Fetch(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// StoreSource reads documents straight from a content store.
type StoreSource struct {
	store persist.Store
}

// NewStoreSource creates a source over store.
func NewStoreSource(store persist.Store) *StoreSource {
	return &StoreSource{store: store}
}

// Fetch returns the stored content of key.
func (s *StoreSource) Fetch(ctx context.Context, key string) (json.RawMessage, error) {
	doc, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return doc.Content, nil
}

// HTTPSource reads the JSON files published with the static site at
// <base>/data/<key>.json.
type HTTPSource struct {
	base   string
	client *http.Client
}

// NewHTTPSource creates a source for the site published at base. A nil
// client uses http.DefaultClient.
func NewHTTPSource(base string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{base: strings.TrimRight(base, "/"), client: client}
}

// Fetch downloads one data file.
func (h *HTTPSource) Fetch(ctx context.Context, key string) (json.RawMessage, error) {
	url := h.base + "/data/" + key + ".json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, persist.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", key, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return body, nil
}

// DocumentCache holds raw documents between loads.
type DocumentCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, content []byte)
}

// CachedSource serves documents from a cache and fills it from source
// on a miss.
type CachedSource struct {
	source Source
	cache  DocumentCache
}

// NewCachedSource wraps source with cache.
func NewCachedSource(source Source, cache DocumentCache) *CachedSource {
	return &CachedSource{source: source, cache: cache}
}

// Fetch returns the cached document or fetches and caches it.
func (c *CachedSource) Fetch(ctx context.Context, key string) (json.RawMessage, error) {
	if raw, ok := c.cache.Get(ctx, key); ok {
		return raw, nil
	}
	raw, err := c.source.Fetch(ctx, key)
	if err != nil {
		return nil, err
	}
	c.cache.Set(ctx, key, raw)
	return raw, nil
}
