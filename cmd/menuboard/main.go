// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the menu board API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"menuboard/internal/cache"
	"menuboard/internal/config"
	"menuboard/internal/database"
	"menuboard/internal/handlers"
	"menuboard/internal/menu"
	"menuboard/internal/middleware"
	"menuboard/internal/router"
	"menuboard/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON everywhere else.
	var logHandler slog.Handler
	if cfg.IsDev() {
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		logHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(logHandler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"timezone", cfg.Location().String(),
	)

	// Connect to PostgreSQL.
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

	// Seed the demo store (no-op if it already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	profiles := store.NewProfileStore(db)

	// Store profiles are cached in Valkey when it is reachable. Without it
	// every lookup goes to PostgreSQL.
	var valkeyClient redis.Cmdable
	if cfg.ValkeyEnabled {
		client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Warn("valkey unavailable, store cache disabled", "error", err)
		} else {
			defer client.Close()
			valkeyClient = client
		}
	}
	stores := cache.NewStoreCache(profiles, valkeyClient, cfg.StoreCacheTTL)

	svc := menu.NewService(stores,
		store.NewDailyMenuStore(db),
		store.NewWeeklyMenuStore(db),
		store.NewMonthlyMenuStore(db),
		menu.Options{
			FetchTimeout:   cfg.FetchTimeout,
			ImportMaxBytes: cfg.ImportMaxBytes,
			Location:       cfg.Location(),
		},
	)

	importLimiter := middleware.NewRateLimiter(cfg.ImportRateLimit, time.Minute)
	defer importLimiter.Stop()

	r := router.New(
		handlers.NewMenus(svc),
		handlers.NewImports(svc, cfg.ImportMaxBytes),
		importLimiter,
	)

	// WriteTimeout must cover a full-size import, which writes one row at
	// a time.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
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
