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

// GetUserHistory returns one page of the caller's interaction history plus
// the unsliced total matching count. Filters combine conjunctively; results
// are ordered occurred_at DESC with id DESC breaking ties. A page beyond
// the available range yields an empty slice with the correct total.
func (db *DB) GetUserHistory(ctx context.Context, userID int64, filter models.HistoryFilter, page, perPage int) (*models.HistoryResponse, error) {
	if page < 1 {
		return nil, fmt.Errorf("page %d: %w", page, ErrInvalidInput)
	}
	if perPage < 1 || perPage > maxPerPage {
		return nil, fmt.Errorf("per_page %d: %w", perPage, ErrInvalidInput)
	}
	if filter.DaysBack != nil && !validDaysBack(*filter.DaysBack) {
		return nil, fmt.Errorf("days_back %d: %w", *filter.DaysBack, ErrInvalidInput)
	}

	whereClause, args := buildHistoryWhereClause(userID, filter)
	start := time.Now()

	var totalCount int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM interactions WHERE %s`, whereClause)
	if err := db.conn.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		metrics.RecordDBQuery("select_history", "interactions", time.Since(start), err)
		return nil, fmt.Errorf("failed to count history: %w", err)
	}

	pageQuery := fmt.Sprintf(`SELECT %s
		FROM interactions
		WHERE %s
		ORDER BY occurred_at DESC, id DESC
		LIMIT ? OFFSET ?`, interactionColumns, whereClause)
	pageArgs := append(append([]interface{}{}, args...), perPage, (page-1)*perPage)

	events, err := db.queryInteractions(ctx, pageQuery, pageArgs)
	metrics.RecordDBQuery("select_history", "interactions", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query history page: %w", err)
	}

	return &models.HistoryResponse{
		Interactions: events,
		TotalCount:   totalCount,
		Page:         page,
		PerPage:      perPage,
	}, nil
}
