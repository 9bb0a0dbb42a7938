// Shopgraph - Product Interaction Analytics Engine
// Copyright 2026 D. Reyes (dreyes-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dreyes-io/shopgraph

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dreyes-io/shopgraph/internal/auth"
	"github.com/dreyes-io/shopgraph/internal/cache"
	"github.com/dreyes-io/shopgraph/internal/config"
	"github.com/dreyes-io/shopgraph/internal/database"
	"github.com/dreyes-io/shopgraph/internal/feed"
	"github.com/dreyes-io/shopgraph/internal/logging"
)

// Handler holds the dependencies of all HTTP handlers.
type Handler struct {
	db           *database.DB
	config       *config.Config
	bus          *feed.Bus
	wsHub        *feed.Hub
	catalogCache *cache.Cache
	startTime    time.Time
}

// NewHandler creates the API handler set. bus and wsHub may be nil in
// tests that do not exercise the live feed.
//
// Catalog reads are cached because the catalog is immutable while the
// server runs (it is seeded at startup). Analytics and history are
// always recomputed from the event store; they are never cached.
func NewHandler(db *database.DB, cfg *config.Config, bus *feed.Bus, wsHub *feed.Hub) *Handler {
	var catalogCache *cache.Cache
	if cfg != nil && cfg.API.CatalogCacheTTL > 0 {
		catalogCache = cache.New(cfg.API.CatalogCacheTTL)
	}

	return &Handler{
		db:           db,
		config:       cfg,
		bus:          bus,
		wsHub:        wsHub,
		catalogCache: catalogCache,
		startTime:    time.Now(),
	}
}

// callerID extracts the authenticated user id placed in the context by the
// identity middleware. Routes behind that middleware always have it; the
// false branch guards against miswired routing.
func (h *Handler) callerID(r *http.Request) (int64, bool) {
	return auth.UserIDFromContext(r.Context())
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout against slow-client attacks.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins. Browser
// clients always send Origin; an empty Origin means a non-browser client,
// which the CORS policy cannot protect anyway, so it is allowed.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	if h.config == nil {
		return true
	}

	for _, allowed := range h.config.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected: origin not allowed")
	return false
}
