// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config loads the sitecms configuration from environment
// variables into a single Config struct.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Content backends selectable with CONTENT_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendGitHub   = "github"
	BackendS3       = "s3"
	BackendMemory   = "memory"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible) for sessions, document cache and rebuild events
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int

	// Where saved documents go
	ContentBackend string

	GitHubToken   string
	GitHubRepo    string // owner/name
	GitHubBranch  string
	GitHubDataDir string
	GitHubAPIURL  string

	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3Prefix    string

	// SiteDataURL loads editor sessions from the published site instead of
	// the content store when set.
	SiteDataURL string
	// SaveEndpoint sends editor saves to a remote save endpoint instead of
	// applying them in-process when set.
	SaveEndpoint string
	// BuildHookURL is POSTed after every successful save when set.
	BuildHookURL string

	CacheTTL          time.Duration
	EditorIdleTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode or a value does not parse.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "sitecms"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "sitecms"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		ContentBackend: envOrDefault("CONTENT_BACKEND", BackendPostgres),

		GitHubToken:   os.Getenv("GITHUB_TOKEN"),
		GitHubRepo:    os.Getenv("GITHUB_REPO"),
		GitHubBranch:  envOrDefault("GITHUB_BRANCH", "master"),
		GitHubDataDir: envOrDefault("GITHUB_DATA_DIR", "src/data"),
		GitHubAPIURL:  envOrDefault("GITHUB_API_URL", "https://api.github.com"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "fsn1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3Prefix:    envOrDefault("S3_PREFIX", "src/data"),

		SiteDataURL:  os.Getenv("SITE_DATA_URL"),
		SaveEndpoint: os.Getenv("SAVE_ENDPOINT"),
		BuildHookURL: os.Getenv("BUILD_HOOK_URL"),
	}

	var err error
	if cfg.ValkeyDB, err = strconv.Atoi(envOrDefault("VALKEY_DB", "0")); err != nil {
		return nil, fmt.Errorf("VALKEY_DB: %w", err)
	}
	if cfg.CacheTTL, err = time.ParseDuration(envOrDefault("CACHE_TTL", "5m")); err != nil {
		return nil, fmt.Errorf("CACHE_TTL: %w", err)
	}
	if cfg.EditorIdleTimeout, err = time.ParseDuration(envOrDefault("EDITOR_IDLE_TIMEOUT", "2h")); err != nil {
		return nil, fmt.Errorf("EDITOR_IDLE_TIMEOUT: %w", err)
	}

	if err := cfg.validateBackend(); err != nil {
		return nil, err
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.ContentBackend == BackendMemory {
			return nil, fmt.Errorf("CONTENT_BACKEND=memory is not allowed in production")
		}
	}

	return cfg, nil
}

// validateBackend checks that the selected content backend is known and
// has its required settings.
func (c *Config) validateBackend() error {
	switch c.ContentBackend {
	case BackendPostgres, BackendMemory:
		return nil
	case BackendGitHub:
		if c.GitHubToken == "" || c.GitHubRepo == "" {
			return fmt.Errorf("CONTENT_BACKEND=github requires GITHUB_TOKEN and GITHUB_REPO")
		}
		return nil
	case BackendS3:
		if c.S3Endpoint == "" || c.S3AccessKey == "" || c.S3SecretKey == "" || c.S3Bucket == "" {
			return fmt.Errorf("CONTENT_BACKEND=s3 requires S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY and S3_BUCKET")
		}
		return nil
	default:
		return fmt.Errorf("unknown CONTENT_BACKEND %q", c.ContentBackend)
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
