// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"sitecms/internal/persist"
	"sitecms/internal/session"
)

// Saver applies a save batch on behalf of the holder of credential.
//
// Implementations return persist.ErrUnauthorized (possibly wrapped) when
// the credential is rejected, a *persist.ConflictError when a document's
// revision is stale and a *persist.FileError for any other per-document
// failure.
type Saver interface {
	Save(ctx context.Context, credential string, batch *persist.Batch) ([]persist.Result, error)
}

// SessionLookup resolves a bearer credential to an operator session.
type SessionLookup interface {
	Get(ctx context.Context, token string) (*session.Data, error)
}

// LocalSaver applies batches in-process after checking the credential
// against the session store.
type LocalSaver struct {
	sessions SessionLookup
	service  *persist.Service
}

// NewLocalSaver creates a saver that calls service directly.
func NewLocalSaver(sessions SessionLookup, service *persist.Service) *LocalSaver {
	return &LocalSaver{sessions: sessions, service: service}
}

// Save checks the credential and applies the batch. Writes are attributed
// to the session's operator.
func (l *LocalSaver) Save(ctx context.Context, credential string, batch *persist.Batch) ([]persist.Result, error) {
	data, err := l.sessions.Get(ctx, credential)
	if err != nil {
		return nil, fmt.Errorf("save: %w", err)
	}
	if data == nil {
		return nil, persist.ErrUnauthorized
	}
	committer := persist.Committer{Name: data.DisplayName, Email: data.Email}
	return l.service.Apply(ctx, committer, batch)
}

// HTTPSaver posts batches to a remote save endpoint.
type HTTPSaver struct {
	endpoint string
	client   *http.Client
}

// NewHTTPSaver creates a saver for the save endpoint at url. A nil client
// uses http.DefaultClient.
func NewHTTPSaver(url string, client *http.Client) *HTTPSaver {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSaver{endpoint: url, client: client}
}

// Save sends the batch with credential as bearer token.
func (h *HTTPSaver) Save(ctx context.Context, credential string, batch *persist.Batch) ([]persist.Result, error) {
	body, err := json.Marshal(persist.SaveRequest{Files: batch})
	if err != nil {
		return nil, fmt.Errorf("marshal save request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create save request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("save request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read save response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var out persist.SaveResponse
		if err := json.Unmarshal(respBody, &out); err != nil {
			return nil, fmt.Errorf("decode save response: %w", err)
		}
		return out.Results, nil
	case http.StatusUnauthorized:
		return nil, persist.ErrUnauthorized
	}

	var apiErr persist.ErrorResponse
	_ = json.Unmarshal(respBody, &apiErr)
	if resp.StatusCode == http.StatusConflict && apiErr.File != "" {
		return nil, &persist.ConflictError{File: apiErr.File}
	}
	if apiErr.Error != "" {
		return nil, errors.New(apiErr.Error)
	}
	return nil, fmt.Errorf("save endpoint returned status %d", resp.StatusCode)
}
