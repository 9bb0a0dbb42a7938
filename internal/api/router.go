// Shopgraph - Product Interaction Analytics Engine
// Copyright 2026 D. Reyes (dreyes-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dreyes-io/shopgraph

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dreyes-io/shopgraph/internal/auth"
	"github.com/dreyes-io/shopgraph/internal/middleware"
)

// Router wires handlers, identity resolution and middleware into the Chi
// route tree.
type Router struct {
	handler       *Handler
	identity      *auth.Identity
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router.
func NewRouter(handler *Handler, identity *auth.Identity, chiMW *ChiMiddleware) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		identity:      identity,
		chiMiddleware: chiMW,
	}
}

// Setup configures all HTTP routes.
//
// Fixed history/analytics/bulk segments are registered before the {id}
// pattern inside /interactions, so chi resolves them without ambiguity.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware stack, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	// Health endpoints: no auth, permissive rate limit for monitoring.
	r.Route("/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitProbes())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Prometheus scrape endpoint.
	r.Handle("/metrics", promhttp.Handler())

	identityMW := middleware.Identity(router.identity)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		// Owner-scoped event operations.
		r.Route("/interactions", func(r chi.Router) {
			r.Use(identityMW)

			r.With(router.chiMiddleware.RateLimitWrites()).Post("/", router.handler.CreateInteraction)
			r.With(router.chiMiddleware.RateLimitReads()).Get("/history", router.handler.History)
			r.With(router.chiMiddleware.RateLimitReads()).Get("/analytics", router.handler.UserAnalytics)
			r.With(router.chiMiddleware.RateLimitBulkReads()).Get("/bulk", router.handler.BulkInteractions)
			r.With(router.chiMiddleware.RateLimitWrites()).Delete("/{id}", router.handler.DeleteInteraction)
		})

		// Catalog reads and cross-user product analytics.
		r.Route("/products", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitReads())

			r.Get("/", router.handler.ListProducts)
			r.Get("/{id}", router.handler.GetProduct)
			r.With(identityMW).Get("/{id}/stats", router.handler.ProductStats)
		})

		// Live activity feed.
		r.Route("/ws", func(r chi.Router) {
			r.Use(identityMW)
			r.Get("/activity", router.handler.ActivityFeed)
		})
	})

	return r
}
