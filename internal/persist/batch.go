// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package persist

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var tombstone = json.RawMessage("null")

// Batch is an ordered set of documents to write. A null document is a
// tombstone: the document is deleted. Order is preserved on the wire.
type Batch struct {
	files *orderedmap.OrderedMap[string, json.RawMessage]
}

// NewBatch returns an empty batch.
func NewBatch() *Batch {
	return &Batch{files: orderedmap.New[string, json.RawMessage]()}
}

// Put adds or replaces a document. Re-putting a key keeps its position.
func (b *Batch) Put(key string, content json.RawMessage) {
	b.files.Set(key, content)
}

// PutValue marshals v and adds it under key.
func (b *Batch) PutValue(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("batch %s: %w", key, err)
	}
	b.Put(key, data)
	return nil
}

// Delete adds a tombstone for key.
func (b *Batch) Delete(key string) {
	b.files.Set(key, tombstone)
}

// Get returns the document stored under key.
func (b *Batch) Get(key string) (json.RawMessage, bool) {
	return b.files.Get(key)
}

// Len returns the number of documents.
func (b *Batch) Len() int { return b.files.Len() }

// Keys returns the keys in submission order.
func (b *Batch) Keys() []string {
	keys := make([]string, 0, b.files.Len())
	for pair := b.files.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Each calls fn for every document in submission order, stopping at the
// first error.
func (b *Batch) Each(fn func(key string, content json.RawMessage) error) error {
	for pair := b.files.Oldest(); pair != nil; pair = pair.Next() {
		if err := fn(pair.Key, pair.Value); err != nil {
			return err
		}
	}
	return nil
}

// IsTombstone reports whether content marks a deletion.
func IsTombstone(content json.RawMessage) bool {
	c := bytes.TrimSpace(content)
	return len(c) == 0 || bytes.Equal(c, tombstone)
}

// MarshalJSON encodes the batch as an object in submission order.
func (b *Batch) MarshalJSON() ([]byte, error) {
	return b.files.MarshalJSON()
}

// UnmarshalJSON decodes an object, keeping key order. Anything other than
// a JSON object is rejected.
func (b *Batch) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return fmt.Errorf("batch: files must be an object")
	}
	files := orderedmap.New[string, json.RawMessage]()
	if err := files.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	b.files = files
	return nil
}
