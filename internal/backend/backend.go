// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package backend opens the content store selected by CONTENT_BACKEND.
package backend

import (
	"database/sql"
	"fmt"

	"sitecms/internal/config"
	"sitecms/internal/persist"
	"sitecms/internal/persist/github"
	"sitecms/internal/storage"
	"sitecms/internal/store"
)

// Open returns the content store cfg selects. db is only used by the
// postgres backend and may be nil otherwise.
func Open(cfg *config.Config, db *sql.DB) (persist.Store, error) {
	switch cfg.ContentBackend {
	case config.BackendPostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres backend: no database connection")
		}
		return store.NewDocumentStore(db), nil
	case config.BackendGitHub:
		gh, err := github.New(github.Config{
			Token:   cfg.GitHubToken,
			Repo:    cfg.GitHubRepo,
			Branch:  cfg.GitHubBranch,
			DataDir: cfg.GitHubDataDir,
			BaseURL: cfg.GitHubAPIURL,
		})
		if err != nil {
			return nil, err
		}
		return gh, nil
	case config.BackendS3:
		s3, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			return nil, err
		}
		return s3, nil
	case config.BackendMemory:
		return persist.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown content backend %q", cfg.ContentBackend)
	}
}
