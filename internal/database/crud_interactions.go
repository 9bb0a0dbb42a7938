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

	"github.com/goccy/go-json"

	"github.com/dreyes-io/shopgraph/internal/logging"
	"github.com/dreyes-io/shopgraph/internal/metrics"
	"github.com/dreyes-io/shopgraph/internal/models"
)

// CreateInteraction validates the product reference and appends a new
// interaction event. The store assigns id and timestamp; the fully
// populated record is returned.
//
// The optional fields are persisted exactly as given for any type: a view
// may carry a rating_value, and rating_value is not range-checked. That
// permissiveness is part of the contract, not an oversight.
func (db *DB) CreateInteraction(ctx context.Context, userID int64, req *models.CreateInteractionRequest) (*models.InteractionEvent, error) {
	exists, err := db.ProductExists(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to check product existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("product %d: %w", req.ProductID, ErrNotFound)
	}

	var metadata sql.NullString
	if len(req.Metadata) > 0 {
		encoded, err := json.Marshal(req.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to encode metadata: %w", err)
		}
		metadata = sql.NullString{String: string(encoded), Valid: true}
	}

	query := `INSERT INTO interactions (
		user_id, product_id, interaction_type, occurred_at,
		rating_value, quantity, session_id, metadata
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING id, occurred_at`

	occurredAt := time.Now().UTC()

	var (
		id       int64
		storedAt time.Time
	)
	start := time.Now()
	err = db.conn.QueryRowContext(ctx, query,
		userID, req.ProductID, req.Type.String(), occurredAt,
		req.RatingValue, req.Quantity, req.SessionID, metadata,
	).Scan(&id, &storedAt)
	metrics.RecordDBQuery("insert", "interactions", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to insert interaction: %w", err)
	}

	logging.Ctx(ctx).Debug().
		Int64("interaction_id", id).
		Int64("user_id", userID).
		Int64("product_id", req.ProductID).
		Str("type", req.Type.String()).
		Msg("Interaction recorded")

	return &models.InteractionEvent{
		ID:          id,
		UserID:      userID,
		ProductID:   req.ProductID,
		Type:        req.Type,
		Timestamp:   storedAt.UTC(),
		RatingValue: req.RatingValue,
		Quantity:    req.Quantity,
		SessionID:   req.SessionID,
		Metadata:    req.Metadata,
	}, nil
}

// DeleteInteraction removes a single interaction owned by userID. An
// interaction that does not exist and one owned by someone else both
// return ErrNotFound; callers cannot tell the cases apart.
func (db *DB) DeleteInteraction(ctx context.Context, userID, interactionID int64) error {
	start := time.Now()
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM interactions WHERE id = ? AND user_id = ?`,
		interactionID, userID)
	metrics.RecordDBQuery("delete", "interactions", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to delete interaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("interaction %d: %w", interactionID, ErrNotFound)
	}

	logging.Ctx(ctx).Info().
		Int64("interaction_id", interactionID).
		Int64("user_id", userID).
		Msg("Interaction deleted")

	return nil
}

// GetBulkInteractions returns up to filter.Limit of the caller's events
// across the given product and type sets, newest first. No aggregation is
// performed; this path feeds external recommendation consumers raw rows.
func (db *DB) GetBulkInteractions(ctx context.Context, userID int64, filter models.BulkFilter) ([]models.InteractionEvent, error) {
	if filter.Limit < 1 || filter.Limit > maxBulkLimit {
		return nil, fmt.Errorf("limit %d: %w", filter.Limit, ErrInvalidInput)
	}

	whereClause, args := buildBulkWhereClause(userID, filter)
	query := fmt.Sprintf(`SELECT %s
		FROM interactions
		WHERE %s
		ORDER BY occurred_at DESC, id DESC
		LIMIT ?`, interactionColumns, whereClause)
	args = append(args, filter.Limit)

	start := time.Now()
	events, err := db.queryInteractions(ctx, query, args)
	metrics.RecordDBQuery("select_bulk", "interactions", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query bulk interactions: %w", err)
	}
	return events, nil
}
