// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"sitecms/internal/middleware"
	"sitecms/internal/persist"
)

// Save is the persistence boundary: it applies a batch of documents to the
// content store on behalf of the authenticated operator. Editor sessions
// of this server call the same service in-process; this endpoint serves
// editors running elsewhere.
type Save struct {
	service *persist.Service
}

// NewSave creates the save endpoint handler.
func NewSave(service *persist.Service) *Save {
	return &Save{service: service}
}

// Apply handles POST /api/save. Must be behind middleware.RequireAuth.
func (s *Save) Apply(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req persist.SaveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Files == nil || req.Files.Len() == 0 {
		writeError(w, http.StatusBadRequest, "No files to save.")
		return
	}

	committer := persist.Committer{Name: sess.DisplayName, Email: sess.Email}
	results, err := s.service.Apply(r.Context(), committer, req.Files)
	if err != nil {
		writeSaveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, persist.SaveResponse{OK: true, Results: results})
}

// writeSaveError maps a batch failure onto the save endpoint's responses.
func writeSaveError(w http.ResponseWriter, err error) {
	var keyErr *persist.KeyError
	var conflict *persist.ConflictError
	var fileErr *persist.FileError
	switch {
	case errors.As(err, &keyErr):
		writeJSON(w, http.StatusBadRequest, persist.ErrorResponse{Error: keyErr.Error()})
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, persist.ErrorResponse{Error: conflict.Error(), File: conflict.File})
	case errors.As(err, &fileErr):
		slog.Error("save failed", "file", fileErr.File, "error", fileErr.Err)
		writeJSON(w, http.StatusInternalServerError, persist.ErrorResponse{Error: fileErr.Error(), File: fileErr.File})
	default:
		slog.Error("save failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, persist.ErrorResponse{Error: err.Error()})
	}
}
