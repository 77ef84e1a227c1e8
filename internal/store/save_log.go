// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"sitecms/internal/models"
	"sitecms/internal/persist"
)

// SaveLogStore records the per-document outcome of save batches.
type SaveLogStore struct {
	db *sql.DB
}

// NewSaveLogStore creates a new SaveLogStore.
func NewSaveLogStore(db *sql.DB) *SaveLogStore {
	return &SaveLogStore{db: db}
}

// RecordSave inserts one outcome. It satisfies persist.Recorder.
func (s *SaveLogStore) RecordSave(ctx context.Context, e persist.LogEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO save_log (batch_id, document_key, status, revision, committer_name, committer_email, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.BatchID, e.Key, e.Status, e.Revision, e.Committer.Name, e.Committer.Email, e.Error)
	if err != nil {
		return fmt.Errorf("record save: %w", err)
	}
	return nil
}

const saveLogColumns = `id, batch_id, document_key, status, revision, committer_name, committer_email, error, created_at`

func scanSaveLog(scanner interface{ Scan(...any) error }) (*models.SaveLogEntry, error) {
	e := &models.SaveLogEntry{}
	err := scanner.Scan(
		&e.ID, &e.BatchID, &e.DocumentKey, &e.Status, &e.Revision,
		&e.CommitterName, &e.CommitterEmail, &e.Error, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *SaveLogStore) list(query string, args ...any) ([]models.SaveLogEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query save log: %w", err)
	}
	defer rows.Close()

	var entries []models.SaveLogEntry
	for rows.Next() {
		e, err := scanSaveLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan save log: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// RecentEntries returns the most recent save log entries, newest first.
func (s *SaveLogStore) RecentEntries(limit int) ([]models.SaveLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.list(`SELECT `+saveLogColumns+` FROM save_log ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
}

// Batch returns the entries of one save batch in the order they were written.
func (s *SaveLogStore) Batch(batchID uuid.UUID) ([]models.SaveLogEntry, error) {
	return s.list(`SELECT `+saveLogColumns+` FROM save_log WHERE batch_id = $1 ORDER BY id`, batchID)
}
