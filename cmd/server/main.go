// Shopgraph - Product Interaction Analytics Engine
// Copyright 2026 D. Reyes (dreyes-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dreyes-io/shopgraph

// Package main is the entry point for the Shopgraph server.
//
// Shopgraph records product interaction events (views, likes, cart
// additions, purchases, ratings) and serves per-user history, per-user
// and per-product analytics, and a real-time activity feed over
// WebSocket.
//
// # Startup Order
//
//  1. Configuration: Koanf v2 layered sources (defaults, config.yaml,
//     environment variables)
//  2. Logging: zerolog, configured from the logging section
//  3. Database: DuckDB event store, with optional catalog seeding
//  4. Feed: Watermill in-process bus, WebSocket hub, and consumer
//  5. Authentication: JWT bearer validation, or the X-User-ID
//     development header when auth is disabled
//  6. HTTP server: chi router on SERVER_HOST:SERVER_PORT (default 8460)
//
// All long-running components run under a suture supervisor tree; see
// the supervisor package for the layer layout.
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger a graceful shutdown: the HTTP server
// drains in-flight requests (10s timeout), feed clients receive a close
// frame, and the database is checkpointed before close.
//
// # Example Usage
//
// Development (no auth, in-memory-like local file):
//
//	export AUTH_ENABLED=false
//	export LOGGING_FORMAT=console
//	./shopgraph
//
// Production:
//
//	export AUTH_ENABLED=true
//	export AUTH_JWT_SECRET=$(openssl rand -base64 32)
//	export DATABASE_PATH=/data/shopgraph.db
//	export SECURITY_CORS_ORIGINS=https://shop.example.com
//	./shopgraph
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dreyes-io/shopgraph/internal/api"
	"github.com/dreyes-io/shopgraph/internal/auth"
	"github.com/dreyes-io/shopgraph/internal/config"
	"github.com/dreyes-io/shopgraph/internal/database"
	"github.com/dreyes-io/shopgraph/internal/feed"
	"github.com/dreyes-io/shopgraph/internal/logging"
	"github.com/dreyes-io/shopgraph/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config is not available yet, so this uses logging defaults.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Bool("auth_enabled", cfg.Auth.Enabled).
		Msg("Starting Shopgraph")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	if err := db.SeedCatalogFromFile(context.Background(), cfg.Catalog.SeedFile); err != nil {
		logging.Fatal().Err(err).Str("file", cfg.Catalog.SeedFile).Msg("Failed to seed product catalog")
	}

	var jwtManager *auth.JWTManager
	if cfg.Auth.Enabled {
		jwtManager, err = auth.NewJWTManager(&cfg.Auth)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
		}
		logging.Info().Msg("JWT authentication enabled")
	} else {
		logging.Warn().Msg("Authentication is DISABLED: callers are identified by the X-User-ID header")
		logging.Warn().Msg("Use AUTH_ENABLED=false only for local development and testing")
	}
	identity := auth.NewIdentity(jwtManager, cfg.Auth.Enabled)

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (SECURITY_RATE_LIMIT_DISABLED=true)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog.
	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	bus := feed.NewBus()
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing feed bus")
		}
	}()
	wsHub := feed.NewHub()
	consumer := feed.NewConsumer(bus, wsHub)

	handler := api.NewHandler(db, cfg, bus, wsHub)
	chiMW := api.NewChiMiddlewareFromConfig(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)
	router := api.NewRouter(handler, identity, chiMW)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	tree.AddFeedService(wsHub)
	tree.AddFeedService(consumer)
	tree.AddAPIService(supervisor.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// Config file edits need a restart to take effect; surface them so
	// operators are not left wondering why nothing changed.
	if configPath := config.ConfigFilePath(); configPath != "" {
		if err := config.WatchConfigFile(configPath, func() {
			logging.Warn().Str("file", configPath).Msg("Config file changed; restart to apply")
		}); err != nil {
			logging.Warn().Err(err).Str("file", configPath).Msg("Failed to watch config file")
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}
