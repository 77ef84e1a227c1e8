// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"sitecms/internal/persist"
)

// DocumentStore keeps content documents in PostgreSQL. Revisions are
// random UUIDs and every write appends a row to document_revisions in the
// same transaction.
type DocumentStore struct {
	db *sql.DB
}

// NewDocumentStore creates a new DocumentStore.
func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Get returns the current content and revision of a document.
func (s *DocumentStore) Get(ctx context.Context, key string) (*persist.Document, error) {
	var content, revision string
	err := s.db.QueryRowContext(ctx,
		`SELECT content, revision FROM documents WHERE key = $1`, key,
	).Scan(&content, &revision)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get document %s: %w", key, persist.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", key, err)
	}
	return &persist.Document{Key: key, Content: []byte(content), Revision: revision}, nil
}

// Put creates the document when revision is empty, otherwise updates it
// only if the stored revision still equals revision.
func (s *DocumentStore) Put(ctx context.Context, key string, content []byte, revision string, commit persist.Commit) (string, error) {
	newRev := uuid.NewString()

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var res sql.Result
		var err error
		if revision == "" {
			res, err = tx.ExecContext(ctx, `
				INSERT INTO documents (key, content, revision, committer_name, committer_email)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (key) DO NOTHING
			`, key, string(content), newRev, commit.Committer.Name, commit.Committer.Email)
		} else {
			res, err = tx.ExecContext(ctx, `
				UPDATE documents
				SET content = $2, revision = $3, committer_name = $4, committer_email = $5, updated_at = NOW()
				WHERE key = $1 AND revision = $6
			`, key, string(content), newRev, commit.Committer.Name, commit.Committer.Email, revision)
		}
		if err != nil {
			return err
		}
		if err := expectOne(res); err != nil {
			return err
		}
		c := string(content)
		return insertRevision(ctx, tx, key, newRev, &c, commit)
	})
	if err != nil {
		return "", fmt.Errorf("put document %s: %w", key, err)
	}
	return newRev, nil
}

// Delete removes a document if its revision still equals revision. An
// empty revision deletes unconditionally.
func (s *DocumentStore) Delete(ctx context.Context, key, revision string, commit persist.Commit) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var res sql.Result
		var err error
		if revision == "" {
			res, err = tx.ExecContext(ctx, `DELETE FROM documents WHERE key = $1`, key)
		} else {
			res, err = tx.ExecContext(ctx, `DELETE FROM documents WHERE key = $1 AND revision = $2`, key, revision)
		}
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			if revision == "" {
				return persist.ErrNotFound
			}
			return persist.ErrConflict
		}
		return insertRevision(ctx, tx, key, uuid.NewString(), nil, commit)
	})
	if err != nil {
		return fmt.Errorf("delete document %s: %w", key, err)
	}
	return nil
}

// Keys returns the keys of all stored documents in alphabetical order.
func (s *DocumentStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM documents ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list document keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan document key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *DocumentStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return persist.ErrConflict
	}
	return nil
}

func insertRevision(ctx context.Context, tx *sql.Tx, key, revision string, content *string, commit persist.Commit) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO document_revisions (document_key, revision, content, message, committer_name, committer_email)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, key, revision, content, commit.Message, commit.Committer.Name, commit.Committer.Email)
	if err != nil {
		return fmt.Errorf("record revision: %w", err)
	}
	return nil
}

var _ persist.Store = (*DocumentStore)(nil)
