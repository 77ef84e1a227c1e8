// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// document.go provides a Valkey-backed cache of raw content documents.
// Editor sessions load every document of the site when they start; the
// cache spares the content store those reads until a save invalidates them.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// docKeyPrefix is the Valkey key prefix for cached documents.
	docKeyPrefix = "doc:"

	// DefaultDocumentTTL is how long a document stays cached.
	DefaultDocumentTTL = 5 * time.Minute
)

// DocumentCache caches content documents in Valkey by document key.
type DocumentCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDocumentCache creates a document cache backed by the given Valkey client.
func NewDocumentCache(client *redis.Client, ttl time.Duration) *DocumentCache {
	if ttl == 0 {
		ttl = DefaultDocumentTTL
	}
	return &DocumentCache{client: client, ttl: ttl}
}

// Get returns the cached document for key.
func (dc *DocumentCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := dc.client.Get(ctx, docKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("document cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("document cache hit", "key", key)
	return val, true
}

// Set stores a document with the configured TTL.
func (dc *DocumentCache) Set(ctx context.Context, key string, content []byte) {
	if err := dc.client.Set(ctx, docKeyPrefix+key, content, dc.ttl).Err(); err != nil {
		slog.Warn("document cache set error", "key", key, "error", err)
	}
}

// Invalidate removes documents from the cache.
func (dc *DocumentCache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = docKeyPrefix + k
	}
	if err := dc.client.Del(ctx, full...).Err(); err != nil {
		slog.Warn("document cache invalidate error", "keys", keys, "error", err)
		return
	}
	slog.Debug("document cache invalidated", "keys", keys)
}

// InvalidateAll removes every cached document by scanning for the prefix.
// Used when documents are written outside the save path.
func (dc *DocumentCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := dc.client.Scan(ctx, cursor, docKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("document cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := dc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("document cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("document cache cleared", "deleted", deleted)
	}
}
