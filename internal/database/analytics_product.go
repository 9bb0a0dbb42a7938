// Shopgraph - Product Interaction Analytics Engine
// Copyright 2026 D. Reyes (dreyes-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dreyes-io/shopgraph

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/dreyes-io/shopgraph/internal/metrics"
	"github.com/dreyes-io/shopgraph/internal/models"
)

// GetProductStats computes windowed engagement totals and funnel ratios
// for a single catalog product, across every user.
//
// The window spans the last daysBack days, anchored to the request time.
// The ratios are pointer-valued: a ratio is absent when its denominator is
// zero, never coerced to 0. Values above 1.0 are legitimate (repeat cart
// additions against few views, for example) and are reported unclamped.
func (db *DB) GetProductStats(ctx context.Context, productID int64, daysBack int) (stats *models.ProductStats, err error) {
	if !validDaysBack(daysBack) {
		return nil, fmt.Errorf("days_back %d: %w", daysBack, ErrInvalidInput)
	}

	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("select_product_stats", "interactions", time.Since(start), err)
	}()

	exists, err := db.ProductExists(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}

	cutoff := windowCutoff(daysBack)
	whereClause := "product_id = ? AND occurred_at >= ?"
	args := []interface{}{productID, cutoff}

	counts, err := db.countsByType(ctx, whereClause, args)
	if err != nil {
		return nil, err
	}

	avgRating, err := db.averageRating(ctx, whereClause, args)
	if err != nil {
		return nil, err
	}

	stats = &models.ProductStats{
		ProductID:          productID,
		TotalViews:         counts[models.InteractionView],
		TotalLikes:         counts[models.InteractionLike],
		TotalCartAdditions: counts[models.InteractionAddToCart],
		TotalPurchases:     counts[models.InteractionPurchase],
		TotalRatings:       counts[models.InteractionRating],
		AverageRating:      avgRating,
	}

	if stats.TotalViews > 0 {
		ratio := float64(stats.TotalCartAdditions) / float64(stats.TotalViews)
		stats.ViewToCartRatio = &ratio
	}
	if stats.TotalCartAdditions > 0 {
		ratio := float64(stats.TotalPurchases) / float64(stats.TotalCartAdditions)
		stats.CartToPurchaseRatio = &ratio
	}

	return stats, nil
}
