// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package github stores content documents as JSON files in a GitHub
// repository through the contents API. The blob SHA is the revision and
// every write is a commit on the configured branch.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"sitecms/internal/persist"
)

// Config holds repository coordinates and credentials.
type Config struct {
	Token   string
	Repo    string       // owner/name
	Branch  string       // defaults to master
	DataDir string       // defaults to src/data
	BaseURL string       // defaults to https://api.github.com
	Client  *http.Client // defaults to http.DefaultClient
}

// Store implements persist.Store on top of the contents API.
type Store struct {
	config Config
	client *http.Client
}

// New creates a GitHub-backed store.
func New(cfg Config) (*Store, error) {
	if cfg.Token == "" || cfg.Repo == "" {
		return nil, fmt.Errorf("github store: token and repo are required")
	}
	if cfg.Branch == "" {
		cfg.Branch = "master"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "src/data"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.github.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.DataDir = strings.Trim(cfg.DataDir, "/")

	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}
	return &Store{config: cfg, client: client}, nil
}

// Path returns the repository path of a document key.
func (s *Store) Path(key string) string {
	return s.config.DataDir + "/" + key + ".json"
}

func (s *Store) fileURL(key string) string {
	return fmt.Sprintf("%s/repos/%s/contents/%s", s.config.BaseURL, s.config.Repo, s.Path(key))
}

// Get fetches a file and its blob SHA from the branch.
func (s *Store) Get(ctx context.Context, key string) (*persist.Document, error) {
	u := s.fileURL(key) + "?ref=" + url.QueryEscape(s.config.Branch)
	resp, body, err := s.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("github get %s: %w", key, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, persist.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github get %s: %w", key, apiError(resp.StatusCode, body))
	}

	var file contentsFile
	if err := json.Unmarshal(body, &file); err != nil {
		return nil, fmt.Errorf("github get %s: unmarshal: %w", key, err)
	}
	content, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(file.Content, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("github get %s: decode: %w", key, err)
	}
	return &persist.Document{Key: key, Content: content, Revision: file.SHA}, nil
}

// Put creates or updates a file. An empty revision creates the file.
func (s *Store) Put(ctx context.Context, key string, content []byte, revision string, commit persist.Commit) (string, error) {
	req := writeRequest{
		Message:   commit.Message,
		Content:   base64.StdEncoding.EncodeToString(content),
		SHA:       revision,
		Branch:    s.config.Branch,
		Committer: committer(commit),
	}
	resp, body, err := s.do(ctx, http.MethodPut, s.fileURL(key), req)
	if err != nil {
		return "", fmt.Errorf("github put %s: %w", key, err)
	}
	switch {
	case resp.StatusCode == http.StatusConflict:
		return "", persist.ErrConflict
	// Creating a file that already exists is rejected as unprocessable.
	case resp.StatusCode == http.StatusUnprocessableEntity && revision == "":
		return "", persist.ErrConflict
	case resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated:
		return "", apiError(resp.StatusCode, body)
	}

	var out writeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("github put %s: unmarshal: %w", key, err)
	}
	return out.Content.SHA, nil
}

// Delete removes a file at the given revision.
func (s *Store) Delete(ctx context.Context, key, revision string, commit persist.Commit) error {
	req := writeRequest{
		Message:   commit.Message,
		SHA:       revision,
		Branch:    s.config.Branch,
		Committer: committer(commit),
	}
	resp, body, err := s.do(ctx, http.MethodDelete, s.fileURL(key), req)
	if err != nil {
		return fmt.Errorf("github delete %s: %w", key, err)
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusConflict:
		return persist.ErrConflict
	case http.StatusNotFound:
		return persist.ErrNotFound
	}
	return apiError(resp.StatusCode, body)
}

func (s *Store) do(ctx context.Context, method, u string, payload any) (*http.Response, []byte, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.Token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read body: %w", err)
	}
	return resp, body, nil
}

// apiError turns an error response into an error carrying GitHub's message.
func apiError(status int, body []byte) error {
	var e struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &e) == nil && e.Message != "" {
		return errors.New(e.Message)
	}
	return fmt.Errorf("GitHub API error: %d", status)
}

func committer(c persist.Commit) *persist.Committer {
	if c.Committer.Email == "" {
		return nil
	}
	cm := c.Committer
	return &cm
}

// --- contents API types ---

type contentsFile struct {
	SHA      string `json:"sha"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

type writeRequest struct {
	Message   string             `json:"message"`
	Content   string             `json:"content,omitempty"`
	SHA       string             `json:"sha,omitempty"`
	Branch    string             `json:"branch"`
	Committer *persist.Committer `json:"committer,omitempty"`
}

type writeResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
}
