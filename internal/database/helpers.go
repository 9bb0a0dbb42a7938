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

	"github.com/dreyes-io/shopgraph/internal/models"
)

// queryAndScan executes a query and scans all rows using the provided
// scanner function. Reduces repetitive query-scan-collect boilerplate.
func (db *DB) queryAndScan(ctx context.Context, query string, args []interface{}, scanner func(*sql.Rows) error) error {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		if err := scanner(rows); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration: %w", err)
	}

	return nil
}

// interactionColumns is the canonical select list for interaction rows,
// matched by scanInteraction.
const interactionColumns = "id, user_id, product_id, interaction_type, occurred_at, rating_value, quantity, session_id, metadata"

// scanInteraction scans one interaction row into a models.InteractionEvent.
// The metadata column holds a JSON string; a NULL or empty value becomes a
// nil map.
func scanInteraction(rows *sql.Rows) (models.InteractionEvent, error) {
	var (
		ev          models.InteractionEvent
		typ         string
		occurredAt  time.Time
		ratingValue sql.NullFloat64
		quantity    sql.NullInt64
		sessionID   sql.NullString
		metadata    sql.NullString
	)

	if err := rows.Scan(&ev.ID, &ev.UserID, &ev.ProductID, &typ, &occurredAt,
		&ratingValue, &quantity, &sessionID, &metadata); err != nil {
		return models.InteractionEvent{}, err
	}

	ev.Type = models.InteractionType(typ)
	ev.Timestamp = occurredAt.UTC()
	if ratingValue.Valid {
		v := ratingValue.Float64
		ev.RatingValue = &v
	}
	if quantity.Valid {
		v := quantity.Int64
		ev.Quantity = &v
	}
	if sessionID.Valid {
		v := sessionID.String
		ev.SessionID = &v
	}
	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &ev.Metadata); err != nil {
			return models.InteractionEvent{}, fmt.Errorf("decode metadata for interaction %d: %w", ev.ID, err)
		}
	}

	return ev, nil
}

// queryInteractions runs a query over interactionColumns and collects the
// events in row order.
func (db *DB) queryInteractions(ctx context.Context, query string, args []interface{}) ([]models.InteractionEvent, error) {
	events := []models.InteractionEvent{}
	err := db.queryAndScan(ctx, query, args, func(rows *sql.Rows) error {
		ev, err := scanInteraction(rows)
		if err != nil {
			return err
		}
		events = append(events, ev)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// countsByType runs the grouped per-type count for the given scope and
// returns a map covering the full enumeration, zeros included. Ranging over
// AllInteractionTypes keeps the breakdown exhaustive if the enum grows.
func (db *DB) countsByType(ctx context.Context, whereClause string, args []interface{}) (map[models.InteractionType]int64, error) {
	counts := make(map[models.InteractionType]int64, len(models.AllInteractionTypes()))
	for _, typ := range models.AllInteractionTypes() {
		counts[typ] = 0
	}

	query := fmt.Sprintf(`SELECT interaction_type, COUNT(*)
		FROM interactions
		WHERE %s
		GROUP BY interaction_type`, whereClause)

	err := db.queryAndScan(ctx, query, args, func(rows *sql.Rows) error {
		var (
			typ   string
			count int64
		)
		if err := rows.Scan(&typ, &count); err != nil {
			return err
		}
		// Rows carrying a type outside the closed enumeration cannot be
		// produced by ingestion; tolerate and skip rather than fail.
		if it := models.InteractionType(typ); it.Valid() {
			counts[it] = count
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count interactions by type: %w", err)
	}

	return counts, nil
}

// averageRating computes the mean rating_value over rating-type events in
// the given scope. Returns nil, not zero, when the scope holds no rating
// events.
func (db *DB) averageRating(ctx context.Context, whereClause string, args []interface{}) (*float64, error) {
	query := fmt.Sprintf(`SELECT AVG(rating_value)
		FROM interactions
		WHERE %s AND interaction_type = ?`, whereClause)
	args = append(append([]interface{}{}, args...), models.InteractionRating.String())

	var avg sql.NullFloat64
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&avg); err != nil {
		return nil, fmt.Errorf("failed to compute average rating: %w", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	v := avg.Float64
	return &v, nil
}
