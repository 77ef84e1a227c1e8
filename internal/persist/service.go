// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
)

// LogEntry is one per-document outcome of a save batch.
type LogEntry struct {
	BatchID   uuid.UUID
	Key       string
	Status    string // ok, deleted, conflict or error
	Revision  string
	Committer Committer
	Error     string
}

// Recorder stores save outcomes for auditing.
type Recorder interface {
	RecordSave(ctx context.Context, entry LogEntry) error
}

// Invalidator drops cached copies of documents.
type Invalidator interface {
	Invalidate(ctx context.Context, keys ...string)
}

// Notifier is told which documents changed once a batch ends.
type Notifier interface {
	Notify(ctx context.Context, keys []string)
}

// Service applies save batches to a Store.
type Service struct {
	store       Store
	recorder    Recorder
	invalidator Invalidator
	notifier    Notifier
	manifest    bool
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder logs every per-document outcome.
func WithRecorder(r Recorder) Option { return func(s *Service) { s.recorder = r } }

// WithInvalidator invalidates cached copies of written documents.
func WithInvalidator(i Invalidator) Option { return func(s *Service) { s.invalidator = i } }

// WithNotifier announces written documents, e.g. to trigger a rebuild.
func WithNotifier(n Notifier) Option { return func(s *Service) { s.notifier = n } }

// WithManifest keeps the pages manifest in sync with created and deleted
// pages.
func WithManifest() Option { return func(s *Service) { s.manifest = true } }

// NewService creates a Service over store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying store.
func (s *Service) Store() Store { return s.store }

// Apply writes every document of batch in order. Keys are checked against
// the allow-list before the store is touched. The first stale revision
// returns a *ConflictError, any other failure a *FileError; documents
// written before the failure stay written.
func (s *Service) Apply(ctx context.Context, committer Committer, batch *Batch) ([]Result, error) {
	for _, key := range batch.Keys() {
		if !ValidKey(key) {
			return nil, &KeyError{Key: key}
		}
	}

	batchID := uuid.New()
	results := make([]Result, 0, batch.Len())
	var applied, created, deleted []string

	err := batch.Each(func(key string, content json.RawMessage) error {
		status, rev, existed, err := s.applyOne(ctx, key, content, committer)
		if err != nil {
			entry := LogEntry{BatchID: batchID, Key: key, Committer: committer, Status: "error", Error: err.Error()}
			if errors.Is(err, ErrConflict) {
				entry.Status = "conflict"
				s.record(ctx, entry)
				return &ConflictError{File: key}
			}
			s.record(ctx, entry)
			return &FileError{File: key, Err: err}
		}

		s.record(ctx, LogEntry{BatchID: batchID, Key: key, Status: status, Revision: rev, Committer: committer})
		results = append(results, Result{File: key, Status: status})
		applied = append(applied, key)
		if name, ok := PageName(key); ok {
			switch {
			case status == StatusDeleted && existed:
				deleted = append(deleted, name)
			case status == StatusOK && !existed:
				created = append(created, name)
			}
		}
		return nil
	})

	s.afterApply(ctx, applied, created, deleted, committer)

	if err != nil {
		slog.Warn("save batch aborted", "batch", batchID, "applied", len(applied), "error", err)
		return results, err
	}
	slog.Info("save batch applied", "batch", batchID, "files", len(results), "committer", committer.Email)
	return results, nil
}

// applyOne reads the current revision of key and deletes or writes it.
func (s *Service) applyOne(ctx context.Context, key string, content json.RawMessage, committer Committer) (status, revision string, existed bool, err error) {
	var rev string
	doc, err := s.store.Get(ctx, key)
	switch {
	case err == nil:
		rev = doc.Revision
		existed = true
	case errors.Is(err, ErrNotFound):
	default:
		return "", "", false, fmt.Errorf("get %s: %w", key, err)
	}

	if IsTombstone(content) {
		if existed {
			commit := Commit{Message: "CMS: delete " + key, Committer: committer}
			if err := s.store.Delete(ctx, key, rev, commit); err != nil {
				return "", "", existed, err
			}
		}
		return StatusDeleted, "", existed, nil
	}

	body, err := Indent(content)
	if err != nil {
		return "", "", existed, err
	}
	commit := Commit{Message: "CMS: update " + key, Committer: committer}
	newRev, err := s.store.Put(ctx, key, body, rev, commit)
	if err != nil {
		return "", "", existed, err
	}
	return StatusOK, newRev, existed, nil
}

func (s *Service) record(ctx context.Context, entry LogEntry) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordSave(ctx, entry); err != nil {
		slog.Warn("failed to record save outcome", "key", entry.Key, "error", err)
	}
}

func (s *Service) afterApply(ctx context.Context, applied, created, deleted []string, committer Committer) {
	if len(applied) == 0 {
		return
	}
	if s.manifest && (len(created) > 0 || len(deleted) > 0) {
		if err := s.syncManifest(ctx, created, deleted, committer); err != nil {
			slog.Warn("failed to update pages manifest", "error", err)
		} else {
			applied = append(applied, KeyManifest)
		}
	}
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, applied...)
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, applied)
	}
}

// syncManifest adds created and removes deleted page names. A missing
// manifest starts from the default pages present in the store.
func (s *Service) syncManifest(ctx context.Context, created, deleted []string, committer Committer) error {
	var names []string
	var rev string
	doc, err := s.store.Get(ctx, KeyManifest)
	switch {
	case err == nil:
		rev = doc.Revision
		if err := json.Unmarshal(doc.Content, &names); err != nil {
			return fmt.Errorf("decode manifest: %w", err)
		}
	case errors.Is(err, ErrNotFound):
		if names, err = s.storedDefaultPages(ctx); err != nil {
			return err
		}
	default:
		return fmt.Errorf("get manifest: %w", err)
	}

	names = slices.DeleteFunc(names, func(n string) bool { return slices.Contains(deleted, n) })
	for _, n := range created {
		if !slices.Contains(names, n) {
			names = append(names, n)
		}
	}

	if names == nil {
		names = []string{}
	}
	body, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	commit := Commit{Message: "CMS: update " + KeyManifest, Committer: committer}
	if _, err := s.store.Put(ctx, KeyManifest, body, rev, commit); err != nil {
		return fmt.Errorf("put manifest: %w", err)
	}
	return nil
}

// storedDefaultPages returns the DefaultPages that exist in the store, the
// pages an editor loads while no manifest exists.
func (s *Service) storedDefaultPages(ctx context.Context) ([]string, error) {
	var names []string
	for _, name := range DefaultPages {
		_, err := s.store.Get(ctx, PageKey(name))
		switch {
		case err == nil:
			names = append(names, name)
		case errors.Is(err, ErrNotFound):
		default:
			return nil, fmt.Errorf("get %s: %w", PageKey(name), err)
		}
	}
	return names, nil
}

// Indent re-encodes a JSON document with two-space indentation.
func Indent(content json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, content, "", "  "); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	return buf.Bytes(), nil
}
