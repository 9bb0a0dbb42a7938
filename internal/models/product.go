// Shopgraph - Product Interaction Analytics Engine
// Copyright 2026 D. Reyes (dreyes-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dreyes-io/shopgraph

package models

import (
	"time"
)

// Product is a read-only catalog entry. The engine joins against it to
// label analytics output (category, name) and to verify existence at
// ingestion time; it never mutates catalog state.
type Product struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Category        string     `json:"category"`
	Subcategory     *string    `json:"subcategory,omitempty"`
	Price           float64    `json:"price"`
	Manufacturer    *string    `json:"manufacturer,omitempty"`
	Description     *string    `json:"description,omitempty"`
	QuantityInStock int64      `json:"quantity_in_stock"`
	IsFeatured      bool       `json:"is_featured"`
	IsOnSale        bool       `json:"is_on_sale"`
	SalePrice       *float64   `json:"sale_price,omitempty"`
	Rating          *float64   `json:"rating,omitempty"`
	ImageURL        *string    `json:"image_url,omitempty"`
	ReleaseDate     *time.Time `json:"release_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
