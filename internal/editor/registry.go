// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultIdleTimeout is how long an unused session is kept.
const DefaultIdleTimeout = 2 * time.Hour

// Registry holds the live editing sessions of the server.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	idle     time.Duration
	stopCh   chan struct{}
}

// NewRegistry creates a registry that drops sessions idle for longer
// than idle. It starts a background goroutine to expire them.
func NewRegistry(idle time.Duration) *Registry {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	r := &Registry{
		sessions: make(map[string]*Session),
		idle:     idle,
		stopCh:   make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(idle / 4)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.expire(time.Now())
			case <-r.stopCh:
				return
			}
		}
	}()

	return r
}

// Stop terminates the background expiry goroutine.
func (r *Registry) Stop() {
	close(r.stopCh)
}

// Add registers a session.
func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()
}

// Get returns a live session.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	return s, ok
}

// Remove ends a session.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// expire drops sessions idle since before now minus the idle timeout.
// Sessions with unsaved changes are dropped too; their edits are lost.
func (r *Registry) expire(now time.Time) {
	cutoff := now.Add(-r.idle)

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			if s.Dirty() {
				slog.Warn("editor session expired with unsaved changes", "session", id)
			}
			delete(r.sessions, id)
		}
	}
}
