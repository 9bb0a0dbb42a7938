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
)

const maxCatalogPageSize = 100

// ListProducts returns a page of the read-only catalog, ordered by id.
//
// GET /api/v1/products?skip=0&limit=100
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	skip, err := intQueryParam(r, "skip", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	if skip < 0 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "skip must not be negative", nil)
		return
	}

	limit, err := intQueryParam(r, "limit", maxCatalogPageSize)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	if limit < 1 || limit > maxCatalogPageSize {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be between 1 and 100", nil)
		return
	}

	start := time.Now()
	products, err := h.db.ListProducts(r.Context(), skip, limit)
	if err != nil {
		respondDBError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, products, time.Since(start))
}

// GetProduct returns one catalog product. Lookups are served from the
// catalog cache when enabled; the catalog only changes at startup
// seeding, so TTL expiry is the only invalidation needed.
//
// GET /api/v1/products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a positive integer", nil)
		return
	}

	start := time.Now()

	cacheKey := "product:" + strconv.FormatInt(productID, 10)
	if h.catalogCache != nil {
		if cached, ok := h.catalogCache.Get(cacheKey); ok {
			respondSuccess(w, http.StatusOK, cached, time.Since(start))
			return
		}
	}

	product, err := h.db.GetProduct(r.Context(), productID)
	if err != nil {
		respondDBError(w, err)
		return
	}

	if h.catalogCache != nil {
		h.catalogCache.Set(cacheKey, product)
	}

	respondSuccess(w, http.StatusOK, product, time.Since(start))
}
