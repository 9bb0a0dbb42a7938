// Shopgraph - Product Interaction Analytics Engine
// Copyright 2026 D. Reyes (dreyes-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dreyes-io/shopgraph

package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dreyes-io/shopgraph/internal/config"
	"github.com/dreyes-io/shopgraph/internal/models"
)

// testDBSemaphore limits concurrent database creation to prevent resource
// exhaustion in CI. Concurrent DuckDB CGO calls can hang under pressure, so
// creation is fully serialized.
var testDBSemaphore = make(chan struct{}, 1)

// testDBMutex serializes the New() call itself.
var testDBMutex sync.Mutex

// setupTestDB creates a new in-memory test database with timeout
// protection. The semaphore is held for the entire test lifecycle (released
// via t.Cleanup), not just during creation, so only one test owns an active
// DuckDB connection at a time.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	cfg := &config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "1GB",
	}

	type result struct {
		db  *DB
		err error
	}

	resultCh := make(chan result, 1)
	go func() {
		testDBMutex.Lock()
		db, err := New(cfg)
		testDBMutex.Unlock()
		resultCh <- result{db: db, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			t.Fatalf("Failed to create test database: %v", res.err)
		}
		t.Cleanup(func() {
			if err := res.db.Close(); err != nil {
				t.Logf("Failed to close test database: %v", err)
			}
		})
		return res.db
	case <-time.After(120 * time.Second):
		t.Fatal("Timeout creating test database (DuckDB may be hanging)")
		return nil
	}
}

// mustCreateProduct inserts a minimal catalog product and returns its id.
func mustCreateProduct(t *testing.T, db *DB, name, category string) int64 {
	t.Helper()

	product, err := db.CreateProduct(context.Background(), &models.Product{
		Name:     name,
		Category: category,
		Price:    9.99,
	})
	if err != nil {
		t.Fatalf("Failed to create product %q: %v", name, err)
	}
	return product.ID
}

// insertInteractionAt inserts an event with an explicit occurrence time,
// bypassing CreateInteraction so tests can control the window placement.
func insertInteractionAt(t *testing.T, db *DB, userID, productID int64, typ models.InteractionType, occurredAt time.Time, ratingValue *float64) int64 {
	t.Helper()

	var id int64
	err := db.conn.QueryRowContext(context.Background(),
		`INSERT INTO interactions (user_id, product_id, interaction_type, occurred_at, rating_value)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`,
		userID, productID, typ.String(), occurredAt.UTC(), ratingValue).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to insert interaction: %v", err)
	}
	return id
}

func floatPtr(v float64) *float64 { return &v }

func TestNewAndPing(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestCheckpoint(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Checkpoint(context.Background()); err != nil {
		t.Errorf("Checkpoint() error = %v", err)
	}
}
