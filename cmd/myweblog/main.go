// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the myWebLog server. It loads
// configuration, connects to services, warms the tenant caches, sets up
// routing, and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"myweblog/internal/cache"
	"myweblog/internal/config"
	"myweblog/internal/database"
	"myweblog/internal/engine"
	"myweblog/internal/feed"
	"myweblog/internal/handlers"
	"myweblog/internal/resolve"
	"myweblog/internal/router"
	"myweblog/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if !cfg.IsDev() {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})))
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"feed_cache_ttl", cfg.FeedCacheTTL,
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if a web log already exists).
	if cfg.IsDev() {
		if err := database.Seed(db, cfg.SeedFile); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (rendered feed cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Initialize data stores.
	webLogStore := store.NewWebLogStore(db)
	userStore := store.NewUserStore(db)
	categoryStore := store.NewCategoryStore(db)
	postStore := store.NewPostStore(db)
	pageStore := store.NewPageStore(db)
	tagMapStore := store.NewTagMapStore(db)
	themeStore := store.NewThemeStore(db)

	feedCache := cache.NewFeedCache(valkeyClient, cfg.FeedCacheTTL)

	// Load every web log with its category and page-list snapshots.
	tenants := cache.NewTenants()
	refresher := cache.NewRefresher(tenants, webLogStore, categoryStore, postStore, pageStore, feedCache)

	ctx := context.Background()
	if err := refresher.LoadAll(ctx); err != nil {
		slog.Error("failed to load web logs", "error", err)
		os.Exit(1)
	}

	// Compile each theme in use so template errors surface at startup.
	eng := engine.New(themeStore)
	refresher.UseThemes(eng)
	precompileThemes(ctx, eng, themeStore, tenants)

	classifier := feed.NewClassifier(tagMapStore)
	resolver := resolve.New(postStore, pageStore, classifier)
	synth := feed.NewSynthesizer(userStore, tagMapStore, cfg.GeneratorName)

	publicHandlers := handlers.NewPublic(tenants, resolver, postStore, pageStore, tagMapStore, feedCache, synth, eng)

	r := router.New(tenants, publicHandlers, cfg.GeneratorName)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// SIGHUP reloads the tenant caches and themes; SIGINT/SIGTERM shut
	// down after draining connections.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	for sig := range sigs {
		if sig != syscall.SIGHUP {
			slog.Info("shutdown signal received", "signal", sig)
			break
		}
		slog.Info("reloading web logs")
		if err := reload(ctx, refresher, tenants); err != nil {
			slog.Error("reload failed", "error", err)
			continue
		}
		eng.InvalidateAll()
		precompileThemes(ctx, eng, themeStore, tenants)
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// reload refreshes every cached web log, which also drops its cached
// feeds, then picks up web logs created since startup.
func reload(ctx context.Context, refresher *cache.Refresher, tenants *cache.Tenants) error {
	cached := tenants.WebLogs()
	for _, wl := range cached {
		if err := refresher.Refresh(ctx, wl.ID); err != nil {
			slog.Warn("refresh web log failed", "web_log_id", wl.ID, "error", err)
		}
	}
	slog.Debug("web logs refreshed", "count", len(cached))
	return refresher.LoadAll(ctx)
}

// precompileThemes compiles the theme of every cached web log, logging
// rather than failing on invalid templates.
func precompileThemes(ctx context.Context, eng *engine.Engine, themes engine.TemplateLister, tenants *cache.Tenants) {
	seen := make(map[string]bool)
	for _, wl := range tenants.WebLogs() {
		if seen[wl.ThemeID] {
			continue
		}
		seen[wl.ThemeID] = true
		n, err := eng.Precompile(ctx, themes, wl.ThemeID)
		if err != nil {
			slog.Warn("theme failed to compile", "theme", wl.ThemeID, "error", err)
			continue
		}
		slog.Info("theme compiled", "theme", wl.ThemeID, "templates", n)
	}
}
