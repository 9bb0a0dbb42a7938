// Shopgraph - Product Interaction Analytics Engine
// Copyright 2026 D. Reyes (dreyes-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dreyes-io/shopgraph

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/dreyes-io/shopgraph/internal/database"
	"github.com/dreyes-io/shopgraph/internal/logging"
	"github.com/dreyes-io/shopgraph/internal/metrics"
	"github.com/dreyes-io/shopgraph/internal/models"
)

const (
	maxBulkLimit     = 1000
	defaultBulkLimit = 100
)

// CreateInteraction records a new interaction event for the caller.
//
// POST /api/v1/interactions
//
// The product reference must exist in the catalog; the event type must
// belong to the closed enumeration. The optional fields are stored
// verbatim for any type. Responds 201 with the stored event, including
// its server-assigned id and timestamp.
func (h *Handler) CreateInteraction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication required", nil)
		return
	}

	var req models.CreateInteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON request body", nil)
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		metrics.RecordIngestRejection("validation")
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	start := time.Now()
	event, err := h.db.CreateInteraction(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			metrics.RecordIngestRejection("unknown_product")
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to record interaction", err)
		return
	}

	metrics.RecordIngestion(event.Type.String())
	if h.bus != nil {
		h.bus.PublishInteraction(event)
	}

	respondSuccess(w, http.StatusCreated, event, time.Since(start))
}

// DeleteInteraction removes one of the caller's interaction events.
//
// DELETE /api/v1/interactions/{id}
//
// An event that does not exist and one owned by another user produce the
// same 404; the response never reveals whether the record exists.
func (h *Handler) DeleteInteraction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication required", nil)
		return
	}

	interactionID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || interactionID <= 0 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a positive integer", nil)
		return
	}

	start := time.Now()
	if err := h.db.DeleteInteraction(r.Context(), userID, interactionID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Interaction not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete interaction", err)
		return
	}

	metrics.InteractionsDeleted.Inc()
	respondSuccess(w, http.StatusOK, models.MessageResponse{Message: "Interaction deleted successfully"}, time.Since(start))
}

// BulkInteractions returns the caller's raw events across product and type
// sets, newest first, for external recommendation pipelines.
//
// GET /api/v1/interactions/bulk?product_ids=1,2&interaction_types=view,like&limit=100
//
// Both sets are required and combine conjunctively. No aggregation is
// applied; consumers get raw rows capped at limit.
func (h *Handler) BulkInteractions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication required", nil)
		return
	}

	productIDs, err := parseCommaSeparatedInt64s(r.URL.Query().Get("product_ids"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "product_ids must be a comma-separated list of integers", nil)
		return
	}
	if len(productIDs) == 0 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "product_ids is required", nil)
		return
	}

	typeNames := parseCommaSeparated(r.URL.Query().Get("interaction_types"))
	if len(typeNames) == 0 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "interaction_types is required", nil)
		return
	}
	types := make([]models.InteractionType, 0, len(typeNames))
	for _, name := range typeNames {
		typ := models.InteractionType(name)
		if !typ.Valid() {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
				"interaction_types must be one of: view, like, add_to_cart, purchase, rating", nil)
			return
		}
		types = append(types, typ)
	}

	limit, err := intQueryParam(r, "limit", defaultBulkLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	if limit < 1 || limit > maxBulkLimit {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be between 1 and 1000", nil)
		return
	}

	start := time.Now()
	events, err := h.db.GetBulkInteractions(r.Context(), userID, models.BulkFilter{
		ProductIDs: productIDs,
		Types:      types,
		Limit:      limit,
	})
	if err != nil {
		respondDBError(w, err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Int64("user_id", userID).
		Int("events", len(events)).
		Msg("Bulk retrieval served")

	respondSuccess(w, http.StatusOK, events, time.Since(start))
}
