// Shopgraph - Product Interaction Analytics Engine
// Copyright 2026 D. Reyes (dreyes-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dreyes-io/shopgraph

package api

import (
	"net/http"

	"github.com/dreyes-io/shopgraph/internal/feed"
	"github.com/dreyes-io/shopgraph/internal/logging"
)

// ActivityFeed upgrades the connection and streams the caller's own
// persisted interaction events as they happen. Events of other users are
// never delivered on this connection.
//
// GET /api/v1/ws/activity
func (h *Handler) ActivityFeed(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		respondError(w, http.StatusServiceUnavailable, "FEED_UNAVAILABLE", "Live activity feed is not running", nil)
		return
	}

	userID, ok := h.callerID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication required", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := feed.NewClient(h.wsHub, conn, userID)
	h.wsHub.Register <- client
	client.Start()
}
