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

const (
	defaultHistoryPerPage = 20
	maxHistoryPerPage     = 100
	maxDaysBack           = 365
)

// History returns one page of the caller's interaction history.
//
// GET /api/v1/interactions/history?interaction_type=&product_id=&days_back=&page=&per_page=
//
// All filters are optional and combine conjunctively; without days_back
// the window spans all time. The response carries the unsliced total
// matching count, so a page beyond the range yields an empty list with the
// correct total.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication required", nil)
		return
	}

	page, err := intQueryParam(r, "page", 1)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	if page < 1 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "page must be at least 1", nil)
		return
	}

	perPage, err := intQueryParam(r, "per_page", defaultHistoryPerPage)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	if perPage < 1 || perPage > maxHistoryPerPage {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "per_page must be between 1 and 100", nil)
		return
	}

	var filter models.HistoryFilter

	if raw := r.URL.Query().Get("interaction_type"); raw != "" {
		typ := models.InteractionType(raw)
		if !typ.Valid() {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
				"interaction_type must be one of: view, like, add_to_cart, purchase, rating", nil)
			return
		}
		filter.Type = &typ
	}

	productID, err := int64QueryParam(r, "product_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	if productID != nil {
		if *productID <= 0 {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "product_id must be a positive integer", nil)
			return
		}
		filter.ProductID = productID
	}

	if raw := r.URL.Query().Get("days_back"); raw != "" {
		daysBack, err := intQueryParam(r, "days_back", 0)
		if err != nil {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
			return
		}
		if daysBack < 1 || daysBack > maxDaysBack {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "days_back must be between 1 and 365", nil)
			return
		}
		filter.DaysBack = &daysBack
	}

	start := time.Now()
	history, err := h.db.GetUserHistory(r.Context(), userID, filter, page, perPage)
	if err != nil {
		respondDBError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, history, time.Since(start))
}
