// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"sitecms/internal/models"
)

// revisionColumns lists all columns for document_revisions SELECTs.
const revisionColumns = `id, document_key, revision, content, message, committer_name, committer_email, created_at`

// DocumentRevisionStore reads the write history that DocumentStore appends.
type DocumentRevisionStore struct {
	db *sql.DB
}

// NewDocumentRevisionStore creates a new DocumentRevisionStore.
func NewDocumentRevisionStore(db *sql.DB) *DocumentRevisionStore {
	return &DocumentRevisionStore{db: db}
}

func scanRevision(scanner interface{ Scan(...any) error }) (*models.DocumentRevision, error) {
	r := &models.DocumentRevision{}
	var content sql.NullString
	err := scanner.Scan(
		&r.ID, &r.DocumentKey, &r.Revision, &content, &r.Message,
		&r.CommitterName, &r.CommitterEmail, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if content.Valid {
		r.Content = []byte(content.String)
	}
	return r, nil
}

// ListByKey returns the most recent revisions of a document, newest first.
func (s *DocumentRevisionStore) ListByKey(key string, limit int) ([]models.DocumentRevision, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT `+revisionColumns+` FROM document_revisions
		WHERE document_key = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, key, limit)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	defer rows.Close()

	var revisions []models.DocumentRevision
	for rows.Next() {
		r, err := scanRevision(rows)
		if err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		revisions = append(revisions, *r)
	}
	return revisions, rows.Err()
}

// FindByID retrieves a single revision. Returns nil if not found.
func (s *DocumentRevisionStore) FindByID(id uuid.UUID) (*models.DocumentRevision, error) {
	r, err := scanRevision(s.db.QueryRow(`SELECT `+revisionColumns+` FROM document_revisions WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find revision: %w", err)
	}
	return r, nil
}
