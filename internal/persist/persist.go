// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package persist applies batches of JSON content documents to a content
// store that only offers per-document optimistic concurrency. Documents are
// written one at a time in submission order; the first stale revision stops
// the batch and nothing already written is rolled back.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by Store.Get for an absent document.
	ErrNotFound = errors.New("document not found")
	// ErrConflict is returned by a conditional write whose revision is stale.
	ErrConflict = errors.New("revision conflict")
	// ErrInvalidKey is wrapped by KeyError.
	ErrInvalidKey = errors.New("invalid file path")
	// ErrUnauthorized is returned when a save credential is missing or rejected.
	ErrUnauthorized = errors.New("unauthorized")
)

// Document is a stored document together with its revision marker.
type Document struct {
	Key      string
	Content  json.RawMessage
	Revision string
}

// Committer attributes a write to an operator.
type Committer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Commit describes a single write.
type Commit struct {
	Message   string
	Committer Committer
}

// Store is a keyed document store with conditional writes.
//
// Put with an empty revision creates the document and fails with
// ErrConflict if it already exists. Put and Delete with a revision fail
// with ErrConflict when the stored revision differs.
type Store interface {
	Get(ctx context.Context, key string) (*Document, error)
	Put(ctx context.Context, key string, content []byte, revision string, commit Commit) (string, error)
	Delete(ctx context.Context, key, revision string, commit Commit) error
}

// Status values reported per applied document.
const (
	StatusOK      = "ok"
	StatusDeleted = "deleted"
)

// Result is the outcome of one applied document.
type Result struct {
	File   string `json:"file"`
	Status string `json:"status"`
}

// ConflictError names the document whose conditional write failed.
type ConflictError struct {
	File string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("Conflict on %s. Someone else may have edited it. Please reload and try again.", e.File)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// FileError names the document whose write failed for any other reason.
type FileError struct {
	File string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("Failed to save %s: %v", e.File, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// KeyError reports a key outside the allow-list.
type KeyError struct {
	Key string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("Invalid file path: %s", e.Key)
}

func (e *KeyError) Unwrap() error { return ErrInvalidKey }
