// Shopgraph - Product Interaction Analytics Engine
// Copyright 2026 D. Reyes (dreyes-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dreyes-io/shopgraph

// Package models defines the domain entities and request/response shapes
// shared by the database and API layers.
package models

import (
	"time"
)

// InteractionType is the closed enumeration of user-product interaction
// kinds. Every per-type aggregate is built from AllInteractionTypes so that
// adding a type here extends the counting paths in lockstep.
type InteractionType string

// The five interaction kinds. The set is closed; aggregation output always
// reports a count for each of them, zero included.
const (
	InteractionView      InteractionType = "view"
	InteractionLike      InteractionType = "like"
	InteractionAddToCart InteractionType = "add_to_cart"
	InteractionPurchase  InteractionType = "purchase"
	InteractionRating    InteractionType = "rating"
)

// AllInteractionTypes returns the full enumeration in canonical order.
// Callers building per-type breakdowns must range over this slice rather
// than hard-coding type names.
func AllInteractionTypes() []InteractionType {
	return []InteractionType{
		InteractionView,
		InteractionLike,
		InteractionAddToCart,
		InteractionPurchase,
		InteractionRating,
	}
}

// Valid reports whether t is a member of the closed enumeration.
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionView, InteractionLike, InteractionAddToCart,
		InteractionPurchase, InteractionRating:
		return true
	}
	return false
}

// String returns the wire representation of the type.
func (t InteractionType) String() string {
	return string(t)
}

// InteractionEvent is a single timestamped user action against a product.
// ID and Timestamp are assigned by the store at insert time; events are
// immutable afterwards and only ever removed whole (privacy erasure).
//
// RatingValue and Quantity are stored exactly as given for any type: the
// engine deliberately does not couple the optional fields to the type, and
// does not range-check RatingValue. Metadata is an opaque extension bag.
type InteractionEvent struct {
	ID          int64                  `json:"id"`
	UserID      int64                  `json:"user_id"`
	ProductID   int64                  `json:"product_id"`
	Type        InteractionType        `json:"interaction_type"`
	Timestamp   time.Time              `json:"timestamp"`
	RatingValue *float64               `json:"rating_value,omitempty"`
	Quantity    *int64                 `json:"quantity,omitempty"`
	SessionID   *string                `json:"session_id,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// CreateInteractionRequest is the ingestion input. UserID comes from the
// authenticated caller, never from the body.
type CreateInteractionRequest struct {
	ProductID   int64                  `json:"product_id" validate:"required,gt=0"`
	Type        InteractionType        `json:"interaction_type" validate:"required,interactiontype"`
	RatingValue *float64               `json:"rating_value,omitempty"`
	Quantity    *int64                 `json:"quantity,omitempty"`
	SessionID   *string                `json:"session_id,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// HistoryFilter is the conjunctive filter set for a history query. Nil
// members are unset. DaysBack, when set, restricts to
// timestamp >= now - DaysBack days.
type HistoryFilter struct {
	Type      *InteractionType
	ProductID *int64
	DaysBack  *int
}

// HistoryResponse is a single page of a user's interaction history together
// with the unsliced total matching count.
type HistoryResponse struct {
	Interactions []InteractionEvent `json:"interactions"`
	TotalCount   int64              `json:"total_count"`
	Page         int                `json:"page"`
	PerPage      int                `json:"per_page"`
}

// CategoryViewCount is one row of the top-viewed-categories ranking.
type CategoryViewCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// LikedProduct is one row of the top-liked-products ranking.
type LikedProduct struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// UserAnalytics is the windowed per-user rollup. AverageRating is nil, not
// zero, when the window holds no rating events.
type UserAnalytics struct {
	TotalViews           int64               `json:"total_views"`
	TotalLikes           int64               `json:"total_likes"`
	TotalCartAdditions   int64               `json:"total_cart_additions"`
	TotalPurchases       int64               `json:"total_purchases"`
	TotalRatings         int64               `json:"total_ratings"`
	AverageRating        *float64            `json:"average_rating,omitempty"`
	MostViewedCategories []CategoryViewCount `json:"most_viewed_categories"`
	MostLikedProducts    []LikedProduct      `json:"most_liked_products"`
	RecentActivity       []InteractionEvent  `json:"recent_activity"`
}

// ProductStats is the windowed per-product rollup across all users. The two
// funnel ratios are nil exactly when their denominator count is zero; they
// are not clamped, and values above 1 are legitimate.
type ProductStats struct {
	ProductID           int64    `json:"product_id"`
	TotalViews          int64    `json:"total_views"`
	TotalLikes          int64    `json:"total_likes"`
	TotalCartAdditions  int64    `json:"total_cart_additions"`
	TotalPurchases      int64    `json:"total_purchases"`
	TotalRatings        int64    `json:"total_ratings"`
	AverageRating       *float64 `json:"average_rating,omitempty"`
	ViewToCartRatio     *float64 `json:"view_to_cart_ratio,omitempty"`
	CartToPurchaseRatio *float64 `json:"cart_to_purchase_ratio,omitempty"`
}

// BulkFilter selects the caller's events across product and type sets.
type BulkFilter struct {
	ProductIDs []int64
	Types      []InteractionType
	Limit      int
}
