// Shopgraph - Product Interaction Analytics Engine
// Copyright 2026 D. Reyes (dreyes-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dreyes-io/shopgraph

package database

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/dreyes-io/shopgraph/internal/logging"
	"github.com/dreyes-io/shopgraph/internal/models"
)

// SeedCatalogFromFile loads catalog products from a JSON file (an array of
// product objects) into an empty products table. A non-empty table is left
// untouched so restarts never duplicate the catalog. An empty path disables
// seeding.
func (db *DB) SeedCatalogFromFile(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}

	count, err := db.CountProducts(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		logging.Debug().Int64("products", count).Msg("Catalog already populated, skipping seed")
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read catalog seed file: %w", err)
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return fmt.Errorf("failed to parse catalog seed file: %w", err)
	}

	for i := range products {
		if _, err := db.CreateProduct(ctx, &products[i]); err != nil {
			return fmt.Errorf("failed to seed product %q: %w", products[i].Name, err)
		}
	}

	logging.Info().
		Int("products", len(products)).
		Str("file", path).
		Msg("Catalog seeded")
	return nil
}
