// Shopgraph - Product Interaction Analytics Engine
// Copyright 2026 D. Reyes (dreyes-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dreyes-io/shopgraph

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dreyes-io/shopgraph/internal/metrics"
	"github.com/dreyes-io/shopgraph/internal/models"
)

// GetUserAnalytics computes the windowed per-user rollup: per-type counts
// over the closed enumeration, average rating, top-5 categories by views,
// top-5 products by likes, and the 10 most recent events.
//
// The five computations are independent passes over the same window; none
// depends on another's result, and an error in any of them fails the whole
// call so a partial rollup is never returned.
//
// The category and product rankings join against the catalog inside DuckDB,
// one batched join per ranking rather than a lookup per event. Events whose
// product has since vanished from the catalog simply drop out of the
// rankings; they still count in the per-type totals and the recent feed.
func (db *DB) GetUserAnalytics(ctx context.Context, userID int64, daysBack int) (analytics *models.UserAnalytics, err error) {
	if !validDaysBack(daysBack) {
		return nil, fmt.Errorf("days_back %d: %w", daysBack, ErrInvalidInput)
	}

	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("select_user_analytics", "interactions", time.Since(start), err)
	}()

	cutoff := windowCutoff(daysBack)
	whereClause := "user_id = ? AND occurred_at >= ?"
	args := []interface{}{userID, cutoff}

	counts, err := db.countsByType(ctx, whereClause, args)
	if err != nil {
		return nil, err
	}

	avgRating, err := db.averageRating(ctx, whereClause, args)
	if err != nil {
		return nil, err
	}

	topCategories, err := db.topViewedCategories(ctx, userID, cutoff)
	if err != nil {
		return nil, err
	}

	topProducts, err := db.topLikedProducts(ctx, userID, cutoff)
	if err != nil {
		return nil, err
	}

	recentQuery := fmt.Sprintf(`SELECT %s
		FROM interactions
		WHERE user_id = ? AND occurred_at >= ?
		ORDER BY occurred_at DESC, id DESC
		LIMIT 10`, interactionColumns)
	recent, err := db.queryInteractions(ctx, recentQuery, args)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent activity: %w", err)
	}

	return &models.UserAnalytics{
		TotalViews:           counts[models.InteractionView],
		TotalLikes:           counts[models.InteractionLike],
		TotalCartAdditions:   counts[models.InteractionAddToCart],
		TotalPurchases:       counts[models.InteractionPurchase],
		TotalRatings:         counts[models.InteractionRating],
		AverageRating:        avgRating,
		MostViewedCategories: topCategories,
		MostLikedProducts:    topProducts,
		RecentActivity:       recent,
	}, nil
}

// topViewedCategories ranks catalog categories by the user's view events in
// the window. Ties break on category name ascending for determinism.
func (db *DB) topViewedCategories(ctx context.Context, userID int64, cutoff time.Time) ([]models.CategoryViewCount, error) {
	query := `SELECT p.category, COUNT(i.id) AS view_count
		FROM interactions i
		JOIN products p ON p.id = i.product_id
		WHERE i.user_id = ? AND i.interaction_type = ? AND i.occurred_at >= ?
		GROUP BY p.category
		ORDER BY view_count DESC, p.category ASC
		LIMIT 5`

	result := []models.CategoryViewCount{}
	err := db.queryAndScan(ctx, query,
		[]interface{}{userID, models.InteractionView.String(), cutoff},
		func(rows *sql.Rows) error {
			var row models.CategoryViewCount
			if err := rows.Scan(&row.Category, &row.Count); err != nil {
				return err
			}
			result = append(result, row)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to rank viewed categories: %w", err)
	}
	return result, nil
}

// topLikedProducts ranks catalog products by the user's like events in the
// window. Ties break on product id ascending for determinism.
func (db *DB) topLikedProducts(ctx context.Context, userID int64, cutoff time.Time) ([]models.LikedProduct, error) {
	query := `SELECT p.id, p.name, COUNT(i.id) AS like_count
		FROM interactions i
		JOIN products p ON p.id = i.product_id
		WHERE i.user_id = ? AND i.interaction_type = ? AND i.occurred_at >= ?
		GROUP BY p.id, p.name
		ORDER BY like_count DESC, p.id ASC
		LIMIT 5`

	result := []models.LikedProduct{}
	err := db.queryAndScan(ctx, query,
		[]interface{}{userID, models.InteractionLike.String(), cutoff},
		func(rows *sql.Rows) error {
			var row models.LikedProduct
			if err := rows.Scan(&row.ID, &row.Name, &row.Count); err != nil {
				return err
			}
			result = append(result, row)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to rank liked products: %w", err)
	}
	return result, nil
}
