// Shopgraph - Product Interaction Analytics Engine
// Copyright 2026 D. Reyes (dreyes-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dreyes-io/shopgraph

package database

import (
	"context"
	"fmt"
	"time"
)

// createTables creates the products and interactions tables.
//
// Interaction ids come from a sequence so they are unique and monotonically
// increasing; paired with occurred_at they give the deterministic
// newest-first ordering (occurred_at DESC, id DESC) every listing uses.
// Metadata is stored as a JSON string and never interpreted by SQL.
func (db *DB) createTables() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	statements := []string{
		`CREATE SEQUENCE IF NOT EXISTS seq_product_id START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_interaction_id START 1`,
		`CREATE TABLE IF NOT EXISTS products (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_product_id'),
			name VARCHAR NOT NULL,
			category VARCHAR NOT NULL,
			subcategory VARCHAR,
			price DOUBLE NOT NULL,
			manufacturer VARCHAR,
			description VARCHAR,
			quantity_in_stock BIGINT NOT NULL DEFAULT 0,
			is_featured BOOLEAN NOT NULL DEFAULT FALSE,
			is_on_sale BOOLEAN NOT NULL DEFAULT FALSE,
			sale_price DOUBLE,
			rating DOUBLE,
			image_url VARCHAR,
			release_date TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS interactions (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_interaction_id'),
			user_id BIGINT NOT NULL,
			product_id BIGINT NOT NULL,
			interaction_type VARCHAR NOT NULL,
			occurred_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			rating_value DOUBLE,
			quantity BIGINT,
			session_id VARCHAR,
			metadata VARCHAR
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema object: %w", err)
		}
	}

	return nil
}

// createIndexes creates the indexes backing the hot query paths: the
// owner-scoped history scan, the per-product funnel rollup, and the
// type-filtered window scans.
func (db *DB) createIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_interactions_user_time ON interactions (user_id, occurred_at)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_product_time ON interactions (product_id, occurred_at)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_type ON interactions (interaction_type)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products (category)`,
	}

	for _, stmt := range indexes {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}
