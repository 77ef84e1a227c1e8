// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"sitecms/internal/persist"
)

// Save outcomes reported to the operator.
const (
	SaveNothing   = "nothing to save"
	SaveNoChanges = "no changes"
	SaveSaved     = "saved"
)

// SaveResult is the outcome of a save that did not fail.
type SaveResult struct {
	Status  string           `json:"status"`
	Results []persist.Result `json:"results,omitempty"`
}

// SetCredential replaces the bearer credential presented on save.
func (s *Session) SetCredential(token string) {
	s.lock()
	defer s.mu.Unlock()
	s.credential = token
}

// Save sends every changed document to the persistence boundary as one
// batch.
//
// A clean session saves nothing. On success the documents that were sent
// become the synced state and the session is clean again, unless it was
// edited while the save was in flight. A conflict or any other failure
// leaves the model and the dirty flag untouched. A rejected credential is
// discarded and ErrReauthenticate returned.
func (s *Session) Save(ctx context.Context) (*SaveResult, error) {
	s.lock()
	if s.saving {
		s.mu.Unlock()
		return nil, ErrSaveInProgress
	}
	if !s.dirty {
		s.mu.Unlock()
		return &SaveResult{Status: SaveNothing}, nil
	}
	if s.saver == nil {
		s.mu.Unlock()
		return nil, errors.New("save: no persistence configured")
	}
	if s.credential == "" {
		s.mu.Unlock()
		return nil, ErrReauthenticate
	}

	batch, sent, err := s.model.Diff()
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("save: %w", err)
	}
	if batch.Len() == 0 {
		s.mu.Unlock()
		return &SaveResult{Status: SaveNoChanges}, nil
	}

	s.saving = true
	gen := s.gen
	credential := s.credential
	saver := s.saver
	s.mu.Unlock()

	results, err := saver.Save(ctx, credential, batch)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false

	if err != nil {
		if errors.Is(err, persist.ErrUnauthorized) {
			s.credential = ""
			return nil, ErrReauthenticate
		}
		slog.Warn("content save failed", "session", s.id, "files", batch.Len(), "error", err)
		return nil, err
	}

	s.model.MarkSynced(sent)
	if s.gen == gen {
		s.dirty = false
	}
	slog.Info("content saved", "session", s.id, "files", len(results))
	return &SaveResult{Status: SaveSaved, Results: results}, nil
}
