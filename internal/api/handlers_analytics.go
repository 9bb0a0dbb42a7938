// Shopgraph - Product Interaction Analytics Engine
// Copyright 2026 D. Reyes (dreyes-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dreyes-io/shopgraph

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dreyes-io/shopgraph/internal/metrics"
)

const defaultAnalyticsDaysBack = 30

// UserAnalytics returns the caller's windowed engagement rollup: per-type
// totals, average rating, top categories and products, and recent events.
//
// GET /api/v1/interactions/analytics?days_back=30
//
// The window defaults to 30 days and accepts 1 through 365. Totals cover
// the full type enumeration with explicit zeros; average_rating is absent
// when the window holds no rating events.
func (h *Handler) UserAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication required", nil)
		return
	}

	daysBack, err := intQueryParam(r, "days_back", defaultAnalyticsDaysBack)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	if daysBack < 1 || daysBack > maxDaysBack {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "days_back must be between 1 and 365", nil)
		return
	}

	start := time.Now()
	analytics, err := h.db.GetUserAnalytics(r.Context(), userID, daysBack)
	if err != nil {
		respondDBError(w, err)
		return
	}

	metrics.AnalyticsQueries.WithLabelValues("user").Inc()
	respondSuccess(w, http.StatusOK, analytics, time.Since(start))
}

// ProductStats returns windowed engagement totals and funnel ratios for
// one catalog product, across every user.
//
// GET /api/v1/products/{id}/stats?days_back=30
//
// The window defaults to 30 days and accepts 1 through 365. Responds 404
// when the product is not in the catalog. Each ratio is present only when
// its denominator is non-zero and is never clamped. Stats are recomputed
// from the event store on every request; they are never cached.
func (h *Handler) ProductStats(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a positive integer", nil)
		return
	}

	daysBack, err := intQueryParam(r, "days_back", defaultAnalyticsDaysBack)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	if daysBack < 1 || daysBack > maxDaysBack {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "days_back must be between 1 and 365", nil)
		return
	}

	start := time.Now()
	stats, err := h.db.GetProductStats(r.Context(), productID, daysBack)
	if err != nil {
		respondDBError(w, err)
		return
	}

	metrics.AnalyticsQueries.WithLabelValues("product").Inc()
	respondSuccess(w, http.StatusOK, stats, time.Since(start))
}
