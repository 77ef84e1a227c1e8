// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sitecms/internal/binding"
	"sitecms/internal/document"
	"sitecms/internal/editor"
	"sitecms/internal/middleware"
	"sitecms/internal/persist"
	"sitecms/internal/render"
)

// maxPageBytes caps the rendered HTML accepted by Bind.
const maxPageBytes = 10 << 20

// Editor exposes editing sessions over HTTP. Each endpoint maps to one
// operator gesture and answers with its result and the session state.
//
// Creating a session requires a logged-in operator, whose token becomes
// the session's save credential. Commands on an existing session are
// addressed by its unguessable id only, so editing continues while the
// operator logs in again after a rejected save.
type Editor struct {
	registry *editor.Registry
	loader   *editor.Loader
	saver    editor.Saver
	renderer *render.Renderer
}

// NewEditor creates the editor handler group.
func NewEditor(registry *editor.Registry, loader *editor.Loader, saver editor.Saver, renderer *render.Renderer) *Editor {
	return &Editor{registry: registry, loader: loader, saver: saver, renderer: renderer}
}

// commandResponse is the body of every successful command.
type commandResponse struct {
	Result any          `json:"result,omitempty"`
	State  editor.State `json:"state"`
}

type createRequest struct {
	Route string `json:"route"`
}

// Create loads the content and opens a new editing session.
func (e *Editor) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	model, err := e.loader.Load(r.Context())
	if err != nil {
		slog.Error("load content failed", "error", err)
		writeError(w, http.StatusBadGateway, "Failed to load content: "+err.Error())
		return
	}

	s := editor.NewSession(model,
		editor.WithSaver(e.saver),
		editor.WithRenderer(e.renderer),
		editor.WithCredential(middleware.TokenFromCtx(r.Context())),
	)
	if req.Route != "" {
		s.SetRoute(req.Route)
	}
	e.registry.Add(s)

	slog.Info("editing session opened", "session", s.ID(), "pages", len(model.PageKeys()))
	writeJSON(w, http.StatusCreated, s.State())
}

// session resolves the {id} URL parameter, answering 404 when unknown.
func (e *Editor) session(w http.ResponseWriter, r *http.Request) (*editor.Session, bool) {
	s, ok := e.registry.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Editing session not found. Reload the page to start a new one.")
		return nil, false
	}
	return s, true
}

// command decodes the request into req, runs fn and writes the result
// with the session state.
func command[T any](e *Editor, w http.ResponseWriter, r *http.Request, fn func(s *editor.Session, req T) (any, error)) {
	s, ok := e.session(w, r)
	if !ok {
		return
	}
	var req T
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := fn(s, req)
	if err != nil {
		writeEditorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, commandResponse{Result: result, State: s.State()})
}

// writeEditorError maps editor errors to statuses: validation and writes
// that did not apply 422, confirmation 428, conflict 409, rejected
// credential 401 and any other save failure 502.
func writeEditorError(w http.ResponseWriter, err error) {
	var conflict *persist.ConflictError
	switch {
	case errors.Is(err, document.ErrNotApplied):
		slog.Warn("edit not applied", "error", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, document.ErrInvalid),
		errors.Is(err, editor.ErrNotEditable),
		errors.Is(err, editor.ErrUnknownConcert),
		errors.Is(err, editor.ErrNoImageEditor):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, editor.ErrConfirmationRequired):
		writeError(w, http.StatusPreconditionRequired, err.Error())
	case errors.Is(err, editor.ErrSaveInProgress):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, errorBody{Error: conflict.Error(), File: conflict.File})
	case errors.Is(err, editor.ErrReauthenticate):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error(), Reauthenticate: true})
	default:
		slog.Error("editor command failed", "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

// State returns the session state.
func (e *Editor) State(w http.ResponseWriter, r *http.Request) {
	s, ok := e.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.State())
}

// Close discards the session and its unsaved edits.
func (e *Editor) Close(w http.ResponseWriter, r *http.Request) {
	s, ok := e.session(w, r)
	if !ok {
		return
	}
	e.registry.Remove(s.ID())
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Bind reads the rendered page from the body and returns its bindings.
func (e *Editor) Bind(w http.ResponseWriter, r *http.Request) {
	s, ok := e.session(w, r)
	if !ok {
		return
	}
	bound, err := s.Bind(http.MaxBytesReader(w, r.Body, maxPageBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, commandResponse{Result: bound, State: s.State()})
}

type routeRequest struct {
	Path string `json:"path"`
}

// SetRoute records the path the operator navigated to.
func (e *Editor) SetRoute(w http.ResponseWriter, r *http.Request) {
	command(e, w, r, func(s *editor.Session, req routeRequest) (any, error) {
		return map[string]string{"pageKey": s.SetRoute(req.Path)}, nil
	})
}

type localeRequest struct {
	Code      string `json:"code"`
	Confirmed bool   `json:"confirmed,omitempty"`
}

// SelectLocale switches the editing locale.
func (e *Editor) SelectLocale(w http.ResponseWriter, r *http.Request) {
	command(e, w, r, func(s *editor.Session, req localeRequest) (any, error) {
		return nil, s.SelectLocale(req.Code)
	})
}

// AddLocale activates a locale.
func (e *Editor) AddLocale(w http.ResponseWriter, r *http.Request) {
	command(e, w, r, func(s *editor.Session, req localeRequest) (any, error) {
		return nil, s.AddLocale(req.Code)
	})
}

// RemoveLocale deactivates a locale once confirmed.
func (e *Editor) RemoveLocale(w http.ResponseWriter, r *http.Request) {
	command(e, w, r, func(s *editor.Session, req localeRequest) (any, error) {
		return nil, s.RemoveLocale(req.Code, req.Confirmed)
	})
}

type textRequest struct {
	Region binding.Region `json:"region"`
	Value  string         `json:"value"`
}

// EditText commits an inline text edit.
func (e *Editor) EditText(w http.ResponseWriter, r *http.Request) {
	command(e, w, r, func(s *editor.Session, req textRequest) (any, error) {
		return nil, s.EditText(req.Region, req.Value)
	})
}

type regionRequest struct {
	Region binding.Region `json:"region"`
}

// OpenImage opens the image editor for a region.
func (e *Editor) OpenImage(w http.ResponseWriter, r *http.Request) {
	command(e, w, r, func(s *editor.Session, req regionRequest) (any, error) {
		return s.OpenImageEditor(req.Region)
	})
}

type imageRequest struct {
	URL string `json:"url"`
}

// ApplyImage sets the URL of the open image editor's region.
func (e *Editor) ApplyImage(w http.ResponseWriter, r *http.Request) {
	command(e, w, r, func(s *editor.Session, req imageRequest) (any, error) {
		return s.ApplyImage(req.URL)
	})
}

type clickRequest struct {
	InsideEditor bool `json:"insideEditor"`
	OnAnchor     bool `json:"onAnchor"`
}

// ClickImage reports a click while the image editor is open.
func (e *Editor) ClickImage(w http.ResponseWriter, r *http.Request) {
	command(e, w, r, func(s *editor.Session, req clickRequest) (any, error) {
		return map[string]bool{"closed": s.ClickImage(req.InsideEditor, req.OnAnchor)}, nil
	})
}

// CloseImage discards the open image editor.
func (e *Editor) CloseImage(w http.ResponseWriter, r *http.Request) {
	command(e, w, r, func(s *editor.Session, _ struct{}) (any, error) {
		s.CloseImageEditor()
		return nil, nil
	})
}

type listRequest struct {
	List  binding.Region `json:"list"`
	Index int            `json:"index,omitempty"`
}

// AddListItem appends an item to a list region.
func (e *Editor) AddListItem(w http.ResponseWriter, r *http.Request) {
	command(e, w, r, func(s *editor.Session, req listRequest) (any, error) {
		return s.AddListItem(req.List)
	})
}

// RemoveListItem removes the item at index from a list region.
func (e *Editor) RemoveListItem(w http.ResponseWriter, r *http.Request) {
	command(e, w, r, func(s *editor.Session, req listRequest) (any, error) {
		return nil, s.RemoveListItem(req.List, req.Index)
	})
}

type concertRequest struct {
	Ref   string            `json:"ref,omitempty"`
	Index *int              `json:"index,omitempty"`
	Field string            `json:"field,omitempty"`
	Value string            `json:"value,omitempty"`
	Scope map[string]string `json:"scope,omitempty"`
}

// AddConcert adds an empty concert row.
func (e *Editor) AddConcert(w http.ResponseWriter, r *http.Request) {
	command(e, w, r, func(s *editor.Session, req concertRequest) (any, error) {
		return s.AddConcert(req.Scope)
	})
}

// EditConcert sets a field of a concert added in this session.
func (e *Editor) EditConcert(w http.ResponseWriter, r *http.Request) {
	command(e, w, r, func(s *editor.Session, req concertRequest) (any, error) {
		return nil, s.EditConcert(req.Ref, req.Field, req.Value)
	})
}

// RemoveConcert removes a concert by reference or, for rows rendered from
// stored content, by index.
func (e *Editor) RemoveConcert(w http.ResponseWriter, r *http.Request) {
	command(e, w, r, func(s *editor.Session, req concertRequest) (any, error) {
		if req.Ref != "" {
			return nil, s.RemoveConcert(req.Ref)
		}
		if req.Index == nil {
			return nil, document.ErrIndexRange
		}
		return nil, s.RemoveConcertAt(*req.Index)
	})
}

type sectionRequest struct {
	Type      string `json:"type,omitempty"`
	Index     int    `json:"index"`
	Direction int    `json:"direction,omitempty"`
}

// AddSection appends a section of a template type to the viewed page.
func (e *Editor) AddSection(w http.ResponseWriter, r *http.Request) {
	command(e, w, r, func(s *editor.Session, req sectionRequest) (any, error) {
		return s.AddSection(req.Type)
	})
}

// DeleteSection removes the section at index from the viewed page.
func (e *Editor) DeleteSection(w http.ResponseWriter, r *http.Request) {
	command(e, w, r, func(s *editor.Session, req sectionRequest) (any, error) {
		id, err := s.DeleteSection(req.Index)
		if err != nil {
			return nil, err
		}
		return map[string]string{"id": id}, nil
	})
}

// MoveSection swaps a section with its neighbour.
func (e *Editor) MoveSection(w http.ResponseWriter, r *http.Request) {
	command(e, w, r, func(s *editor.Session, req sectionRequest) (any, error) {
		moved, err := s.MoveSection(req.Index, req.Direction)
		if err != nil {
			return nil, err
		}
		return map[string]bool{"moved": moved}, nil
	})
}

type pageRequest struct {
	Key       string `json:"key,omitempty"`
	Title     string `json:"title,omitempty"`
	Slug      string `json:"slug,omitempty"`
	Confirmed bool   `json:"confirmed,omitempty"`
}

// AddPage creates a page.
func (e *Editor) AddPage(w http.ResponseWriter, r *http.Request) {
	command(e, w, r, func(s *editor.Session, req pageRequest) (any, error) {
		return s.AddPage(req.Title, req.Slug)
	})
}

// DeletePage removes a page once confirmed. The result names the path to
// navigate to when the viewed page was deleted.
func (e *Editor) DeletePage(w http.ResponseWriter, r *http.Request) {
	command(e, w, r, func(s *editor.Session, req pageRequest) (any, error) {
		redirect, err := s.DeletePage(req.Key, req.Confirmed)
		if err != nil {
			return nil, err
		}
		return map[string]string{"redirect": redirect}, nil
	})
}

// Save sends the session's changes to the persistence boundary.
func (e *Editor) Save(w http.ResponseWriter, r *http.Request) {
	s, ok := e.session(w, r)
	if !ok {
		return
	}
	res, err := s.Save(r.Context())
	if err != nil {
		writeEditorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, commandResponse{Result: res, State: s.State()})
}

// SetCredential replaces the session's save credential with the token of
// the request. Must be behind middleware.RequireAuth.
func (e *Editor) SetCredential(w http.ResponseWriter, r *http.Request) {
	s, ok := e.session(w, r)
	if !ok {
		return
	}
	s.SetCredential(middleware.TokenFromCtx(r.Context()))
	writeJSON(w, http.StatusOK, s.State())
}
