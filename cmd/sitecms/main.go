// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the content editor server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sitecms/internal/backend"
	"sitecms/internal/cache"
	"sitecms/internal/config"
	"sitecms/internal/database"
	"sitecms/internal/editor"
	"sitecms/internal/handlers"
	"sitecms/internal/middleware"
	"sitecms/internal/persist"
	"sitecms/internal/rebuild"
	"sitecms/internal/render"
	"sitecms/internal/router"
	"sitecms/internal/session"
	"sitecms/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"backend", cfg.ContentBackend,
	)

	// PostgreSQL holds operators and the save log for every backend.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed a development operator (no-op if one exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	sessionStore := session.NewStore(valkeyClient)
	userStore := store.NewUserStore(db)
	saveLog := store.NewSaveLogStore(db)

	content, err := backend.Open(cfg, db)
	if err != nil {
		slog.Error("failed to open content backend", "backend", cfg.ContentBackend, "error", err)
		os.Exit(1)
	}

	// Documents may have been pushed while the server was down.
	docCache := cache.NewDocumentCache(valkeyClient, cfg.CacheTTL)
	docCache.InvalidateAll(context.Background())

	triggerOpts := []rebuild.Option{rebuild.WithPublisher(valkeyClient)}
	if cfg.BuildHookURL != "" {
		triggerOpts = append(triggerOpts, rebuild.WithHook(cfg.BuildHookURL, nil))
	} else {
		slog.Warn("BUILD_HOOK_URL not set, saves will not trigger a site rebuild")
	}
	trigger := rebuild.New(triggerOpts...)

	service := persist.NewService(content,
		persist.WithRecorder(saveLog),
		persist.WithInvalidator(docCache),
		persist.WithNotifier(trigger),
		persist.WithManifest(),
	)

	// Editors load either from the store itself or from the published
	// site, in both cases through the document cache.
	var source editor.Source = editor.NewStoreSource(content)
	if cfg.SiteDataURL != "" {
		source = editor.NewHTTPSource(cfg.SiteDataURL, nil)
	}
	loader := editor.NewLoader(editor.NewCachedSource(source, docCache))

	var saver editor.Saver = editor.NewLocalSaver(sessionStore, service)
	if cfg.SaveEndpoint != "" {
		saver = editor.NewHTTPSaver(cfg.SaveEndpoint, nil)
		slog.Info("editor saves go to a remote endpoint", "url", cfg.SaveEndpoint)
	}

	renderer, err := render.New()
	if err != nil {
		slog.Error("failed to initialize fragment renderer", "error", err)
		os.Exit(1)
	}

	registry := editor.NewRegistry(cfg.EditorIdleTimeout)
	defer registry.Stop()

	// Only the postgres backend keeps revisions of its own.
	var revisions handlers.RevisionLister
	if cfg.ContentBackend == config.BackendPostgres {
		revisions = store.NewDocumentRevisionStore(db)
	}

	limiter := middleware.NewRateLimiter(10, time.Minute)
	defer limiter.Stop()

	r := router.New(sessionStore, limiter, router.Handlers{
		Auth:    handlers.NewAuth(sessionStore, userStore),
		Save:    handlers.NewSave(service),
		Editor:  handlers.NewEditor(registry, loader, saver, renderer),
		History: handlers.NewHistory(revisions, saveLog),
	})

	// Saves on other instances invalidate this instance's cached copies.
	subCtx, stopSub := context.WithCancel(context.Background())
	defer stopSub()
	go func() {
		err := rebuild.Subscribe(subCtx, valkeyClient, func(ev rebuild.Event) {
			docCache.Invalidate(subCtx, ev.Keys...)
		})
		if err != nil {
			slog.Warn("content change subscription ended", "error", err)
		}
	}()

	// Saves against a slow backend (GitHub commits one file per request)
	// need a generous write timeout.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
