// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package persist

import (
	"context"
	"slices"
	"strconv"
	"sync"
)

// MemoryStore is an in-process Store for development and tests. Revisions
// are a per-store counter.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]memoryDoc
	seq  int
	log  []Commit
}

type memoryDoc struct {
	content  []byte
	revision string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]memoryDoc)}
}

// Get returns the stored document or ErrNotFound.
func (m *MemoryStore) Get(_ context.Context, key string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.docs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return &Document{Key: key, Content: slices.Clone(d.content), Revision: d.revision}, nil
}

// Put writes content if revision matches the stored one.
func (m *MemoryStore) Put(_ context.Context, key string, content []byte, revision string, commit Commit) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, exists := m.docs[key]
	if exists != (revision != "") || (exists && d.revision != revision) {
		return "", ErrConflict
	}
	m.seq++
	rev := strconv.Itoa(m.seq)
	m.docs[key] = memoryDoc{content: slices.Clone(content), revision: rev}
	m.log = append(m.log, commit)
	return rev, nil
}

// Delete removes key if revision matches the stored one.
func (m *MemoryStore) Delete(_ context.Context, key, revision string, commit Commit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.docs[key]
	if !ok {
		return ErrNotFound
	}
	if d.revision != revision {
		return ErrConflict
	}
	delete(m.docs, key)
	m.log = append(m.log, commit)
	return nil
}

// Keys returns the stored keys, sorted.
func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.docs))
	for k := range m.docs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Commits returns the commits applied so far, oldest first.
func (m *MemoryStore) Commits() []Commit {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.log)
}
