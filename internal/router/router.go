// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// content editor. Everything lives under /api except the health check and
// the editor stylesheet.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sitecms/internal/handlers"
	"sitecms/internal/middleware"
	"sitecms/web"
)

// Handlers are the endpoint groups the router mounts.
type Handlers struct {
	Auth    *handlers.Auth
	Save    *handlers.Save
	Editor  *handlers.Editor
	History *handlers.History
}

// New creates and returns the configured Chi router. limiter throttles
// login attempts and save calls per client IP.
func New(sessions middleware.SessionLookup, limiter *middleware.RateLimiter, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessions))

	r.Get("/health", healthHandler)

	static, _ := fs.Sub(web.StaticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NoStore)

		r.Route("/auth", func(r chi.Router) {
			r.With(limiter.Middleware).Post("/login", h.Auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/logout", h.Auth.Logout)
				r.Get("/me", h.Auth.Me)
				r.Post("/totp/setup", h.Auth.TOTPSetup)
				r.Post("/totp/verify", h.Auth.TOTPVerify)
			})
		})

		// Save boundary for remote editors.
		r.With(middleware.RequireAuth, limiter.Middleware).Post("/save", h.Save.Apply)

		// Editor sessions. Creating one needs a login; afterwards the
		// session id addresses it.
		r.Route("/editor/sessions", func(r chi.Router) {
			r.With(middleware.RequireAuth).Post("/", h.Editor.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Editor.State)
				r.Delete("/", h.Editor.Close)
				r.Post("/bind", h.Editor.Bind)
				r.Put("/route", h.Editor.SetRoute)
				r.Put("/locale", h.Editor.SelectLocale)
				r.Post("/locales/add", h.Editor.AddLocale)
				r.Post("/locales/remove", h.Editor.RemoveLocale)
				r.Post("/text", h.Editor.EditText)

				r.Post("/image/open", h.Editor.OpenImage)
				r.Post("/image/apply", h.Editor.ApplyImage)
				r.Post("/image/click", h.Editor.ClickImage)
				r.Post("/image/close", h.Editor.CloseImage)

				r.Post("/lists/add", h.Editor.AddListItem)
				r.Post("/lists/remove", h.Editor.RemoveListItem)

				r.Post("/concerts/add", h.Editor.AddConcert)
				r.Post("/concerts/edit", h.Editor.EditConcert)
				r.Post("/concerts/remove", h.Editor.RemoveConcert)

				r.Post("/sections/add", h.Editor.AddSection)
				r.Post("/sections/delete", h.Editor.DeleteSection)
				r.Post("/sections/move", h.Editor.MoveSection)

				r.Post("/pages/add", h.Editor.AddPage)
				r.Post("/pages/delete", h.Editor.DeletePage)

				r.Post("/save", h.Editor.Save)
				r.With(middleware.RequireAuth).Put("/credential", h.Editor.SetCredential)
			})
		})

		// Audit trail.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/revisions/*", h.History.Revisions)
			r.Get("/revision/{id}", h.History.Revision)
			r.Get("/save-log", h.History.SaveLog)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
