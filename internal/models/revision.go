// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DocumentRevision is one historical write of a content document.
// Content is nil for a deletion.
type DocumentRevision struct {
	ID             uuid.UUID       `json:"id"`
	DocumentKey    string          `json:"document_key"`
	Revision       string          `json:"revision"`
	Content        json.RawMessage `json:"content,omitempty"`
	Message        string          `json:"message"`
	CommitterName  string          `json:"committer_name"`
	CommitterEmail string          `json:"committer_email"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Deleted reports whether the revision removed the document.
func (r *DocumentRevision) Deleted() bool {
	return r.Content == nil
}

// SaveLogEntry is the recorded outcome of one document in a save batch.
type SaveLogEntry struct {
	ID             int64     `json:"id"`
	BatchID        uuid.UUID `json:"batch_id"`
	DocumentKey    string    `json:"document_key"`
	Status         string    `json:"status"`
	Revision       string    `json:"revision"`
	CommitterName  string    `json:"committer_name"`
	CommitterEmail string    `json:"committer_email"`
	Error          string    `json:"error,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
