// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"sitecms/internal/models"
	"sitecms/internal/persist"
)

// RevisionLister reads the write history of a document.
type RevisionLister interface {
	ListByKey(key string, limit int) ([]models.DocumentRevision, error)
	FindByID(id uuid.UUID) (*models.DocumentRevision, error)
}

// SaveLogReader reads recorded save outcomes.
type SaveLogReader interface {
	RecentEntries(limit int) ([]models.SaveLogEntry, error)
	Batch(batchID uuid.UUID) ([]models.SaveLogEntry, error)
}

// History serves the audit endpoints. revisions is nil when the content
// backend keeps no history of its own.
type History struct {
	revisions RevisionLister
	saveLog   SaveLogReader
}

// NewHistory creates the history handler group.
func NewHistory(revisions RevisionLister, saveLog SaveLogReader) *History {
	return &History{revisions: revisions, saveLog: saveLog}
}

// limitParam parses ?limit=, clamped to [1, 500].
func limitParam(r *http.Request, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return fallback
	}
	return min(n, 500)
}

// Revisions handles GET /api/revisions/*, where the wildcard is a
// document key such as "pages/home".
func (h *History) Revisions(w http.ResponseWriter, r *http.Request) {
	if h.revisions == nil {
		writeError(w, http.StatusNotFound, "Revision history is not kept by this content backend.")
		return
	}
	key := chi.URLParam(r, "*")
	if !persist.ValidKey(key) {
		writeError(w, http.StatusBadRequest, (&persist.KeyError{Key: key}).Error())
		return
	}

	list, err := h.revisions.ListByKey(key, limitParam(r, 50))
	if err != nil {
		slog.Error("list revisions failed", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if list == nil {
		list = []models.DocumentRevision{}
	}
	writeJSON(w, http.StatusOK, list)
}

// Revision handles GET /api/revision/{id}.
func (h *History) Revision(w http.ResponseWriter, r *http.Request) {
	if h.revisions == nil {
		writeError(w, http.StatusNotFound, "Revision history is not kept by this content backend.")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid revision id.")
		return
	}

	rev, err := h.revisions.FindByID(id)
	if err != nil {
		slog.Error("find revision failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if rev == nil {
		writeError(w, http.StatusNotFound, "Revision not found.")
		return
	}
	writeJSON(w, http.StatusOK, rev)
}

// SaveLog handles GET /api/save-log, optionally filtered by ?batch=.
func (h *History) SaveLog(w http.ResponseWriter, r *http.Request) {
	var entries []models.SaveLogEntry
	var err error
	if b := r.URL.Query().Get("batch"); b != "" {
		id, perr := uuid.Parse(b)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "Invalid batch id.")
			return
		}
		entries, err = h.saveLog.Batch(id)
	} else {
		entries, err = h.saveLog.RecentEntries(limitParam(r, 100))
	}
	if err != nil {
		slog.Error("read save log failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if entries == nil {
		entries = []models.SaveLogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
