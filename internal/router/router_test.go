// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint.
package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"sitecms/internal/editor"
	"sitecms/internal/handlers"
	"sitecms/internal/middleware"
	"sitecms/internal/persist"
	"sitecms/internal/session"
)

type sessionMap map[string]*session.Data

func (m sessionMap) Get(_ context.Context, token string) (*session.Data, error) {
	return m[token], nil
}

func testRouter(t *testing.T, loginLimit int) (chi.Router, *persist.MemoryStore) {
	t.Helper()
	limiter := middleware.NewRateLimiter(loginLimit, time.Minute)
	t.Cleanup(limiter.Stop)
	registry := editor.NewRegistry(0)
	t.Cleanup(registry.Stop)

	store := persist.NewMemoryStore()
	sessions := sessionMap{"tok": {UserID: uuid.New(), Email: "anna@example.com", DisplayName: "Anna"}}
	r := New(sessions, limiter, Handlers{
		Auth:    handlers.NewAuth(nil, nil),
		Save:    handlers.NewSave(persist.NewService(store)),
		Editor:  handlers.NewEditor(registry, nil, nil, nil),
		History: handlers.NewHistory(nil, nil),
	})
	return r, store
}

func serve(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

func TestProtectedRoutes(t *testing.T) {
	r, _ := testRouter(t, 10)

	routes := []struct {
		method, path string
	}{
		{http.MethodPost, "/api/auth/logout"},
		{http.MethodGet, "/api/auth/me"},
		{http.MethodPost, "/api/auth/totp/setup"},
		{http.MethodPost, "/api/auth/totp/verify"},
		{http.MethodPost, "/api/save"},
		{http.MethodPost, "/api/editor/sessions"},
		{http.MethodPut, "/api/editor/sessions/abc/credential"},
		{http.MethodGet, "/api/revisions/pages/home"},
		{http.MethodGet, "/api/revision/abc"},
		{http.MethodGet, "/api/save-log"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := serve(r, rt.method, rt.path, "", "")
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			if rec.Header().Get("Cache-Control") != "no-store" {
				t.Error("API response is cacheable")
			}
			if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
				t.Error("security headers missing")
			}
		})
	}
}

func TestSaveRoute(t *testing.T) {
	r, store := testRouter(t, 10)

	rec := serve(r, http.MethodPost, "/api/save", "tok", `{"files":{"site":{"defaultLocale":"en"}}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if keys := store.Keys(); len(keys) != 1 || keys[0] != "site" {
		t.Errorf("stored keys = %v", keys)
	}
}

func TestEditorSessionRoutes(t *testing.T) {
	r, _ := testRouter(t, 10)

	if rec := serve(r, http.MethodGet, "/api/editor/sessions/missing", "", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown session: status %d, want 404", rec.Code)
	}
	if rec := serve(r, http.MethodPost, "/api/editor/sessions/missing/text", "", `{}`); rec.Code != http.StatusNotFound {
		t.Errorf("command on unknown session: status %d, want 404", rec.Code)
	}
}

func TestLoginRateLimited(t *testing.T) {
	r, _ := testRouter(t, 1)

	// Malformed bodies are rejected before any store is consulted.
	if rec := serve(r, http.MethodPost, "/api/auth/login", "", `{`); rec.Code != http.StatusBadRequest {
		t.Fatalf("first attempt: status %d, want 400", rec.Code)
	}
	rec := serve(r, http.MethodPost, "/api/auth/login", "", `{`)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second attempt: status %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After missing")
	}
}

func TestStaticAssets(t *testing.T) {
	r, _ := testRouter(t, 10)

	rec := serve(r, http.MethodGet, "/static/editor.css", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), ".cms-editable") {
		t.Error("stylesheet body unexpected")
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/css") {
		t.Errorf("content-type = %q", rec.Header().Get("Content-Type"))
	}
}
