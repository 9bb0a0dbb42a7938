// Shopgraph - Product Interaction Analytics Engine
// Copyright 2026 D. Reyes (dreyes-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dreyes-io/shopgraph

package api

import (
	"net/http"
	"time"

	"github.com/dreyes-io/shopgraph/internal/models"
)

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"database_connected"`
	FeedClients       int     `json:"feed_clients"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
}

// Version is set at build time via -ldflags.
var Version = "dev"

// Health reports overall service health: degraded when the event store is
// unreachable, healthy otherwise.
//
// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil

	status := "healthy"
	if !dbConnected {
		status = "degraded"
	}

	feedClients := 0
	if h.wsHub != nil {
		feedClients = h.wsHub.ClientCount()
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: HealthStatus{
			Status:            status,
			Version:           Version,
			DatabaseConnected: dbConnected,
			FeedClients:       feedClients,
			UptimeSeconds:     time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	})
}

// HealthLive is the liveness probe: 200 whenever the process is up,
// regardless of dependencies.
//
// GET /health/live
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, models.MessageResponse{Message: "alive"}, 0)
}

// HealthReady is the readiness probe: 200 only when the event store
// answers.
//
// GET /health/ready
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.db == nil || h.db.Ping(r.Context()) != nil {
		respondError(w, http.StatusServiceUnavailable, "DATABASE_ERROR", "Event store not ready", nil)
		return
	}
	respondSuccess(w, http.StatusOK, models.MessageResponse{Message: "ready"}, 0)
}
