// Shopgraph - Product Interaction Analytics Engine
// Copyright 2026 D. Reyes (dreyes-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dreyes-io/shopgraph

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dreyes-io/shopgraph/internal/models"
)

const productColumns = `id, name, category, subcategory, price, manufacturer,
	description, quantity_in_stock, is_featured, is_on_sale, sale_price,
	rating, image_url, release_date, created_at, updated_at`

// ProductExists reports whether a catalog product with the given id exists.
// Ingestion calls this on every write; the primary-key lookup keeps it cheap.
func (db *DB) ProductExists(ctx context.Context, productID int64) (bool, error) {
	var exists bool
	err := db.conn.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM products WHERE id = ?)", productID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}
	return exists, nil
}

// GetProduct fetches a single catalog product, or ErrNotFound.
func (db *DB) GetProduct(ctx context.Context, productID int64) (*models.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = ?", productColumns)
	row := db.conn.QueryRowContext(ctx, query, productID)

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	return product, nil
}

// ListProducts returns a catalog page ordered by id ascending.
func (db *DB) ListProducts(ctx context.Context, skip, limit int) ([]models.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products ORDER BY id ASC LIMIT ? OFFSET ?", productColumns)

	products := []models.Product{}
	err := db.queryAndScan(ctx, query, []interface{}{limit, skip}, func(rows *sql.Rows) error {
		product, err := scanProduct(rows)
		if err != nil {
			return err
		}
		products = append(products, *product)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// CountProducts returns the catalog size.
func (db *DB) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// CreateProduct inserts a catalog entry and returns it with the
// store-assigned id. Used by seeding and by tests; the HTTP surface exposes
// the catalog read-only.
func (db *DB) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	query := `INSERT INTO products
		(name, category, subcategory, price, manufacturer, description,
		 quantity_in_stock, is_featured, is_on_sale, sale_price, rating,
		 image_url, release_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, created_at, updated_at`

	created := *product
	err := db.conn.QueryRowContext(ctx, query,
		product.Name,
		product.Category,
		nullString(product.Subcategory),
		product.Price,
		nullString(product.Manufacturer),
		nullString(product.Description),
		product.QuantityInStock,
		product.IsFeatured,
		product.IsOnSale,
		nullFloat(product.SalePrice),
		nullFloat(product.Rating),
		nullString(product.ImageURL),
		nullTime(product.ReleaseDate),
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &created, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var (
		product      models.Product
		subcategory  sql.NullString
		manufacturer sql.NullString
		description  sql.NullString
		salePrice    sql.NullFloat64
		rating       sql.NullFloat64
		imageURL     sql.NullString
		releaseDate  sql.NullTime
	)

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Category,
		&subcategory,
		&product.Price,
		&manufacturer,
		&description,
		&product.QuantityInStock,
		&product.IsFeatured,
		&product.IsOnSale,
		&salePrice,
		&rating,
		&imageURL,
		&releaseDate,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if subcategory.Valid {
		product.Subcategory = &subcategory.String
	}
	if manufacturer.Valid {
		product.Manufacturer = &manufacturer.String
	}
	if description.Valid {
		product.Description = &description.String
	}
	if salePrice.Valid {
		product.SalePrice = &salePrice.Float64
	}
	if rating.Valid {
		product.Rating = &rating.Float64
	}
	if imageURL.Valid {
		product.ImageURL = &imageURL.String
	}
	if releaseDate.Valid {
		t := releaseDate.Time.UTC()
		product.ReleaseDate = &t
	}
	return &product, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
