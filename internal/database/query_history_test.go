// Shopgraph - Product Interaction Analytics Engine
// Copyright 2026 D. Reyes (dreyes-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dreyes-io/shopgraph

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dreyes-io/shopgraph/internal/models"
)

func intPtr(v int) *int           { return &v }
func int64Ptr(v int64) *int64     { return &v }
func typePtr(t models.InteractionType) *models.InteractionType { return &t }

func TestGetUserHistoryFilters(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	laptop := mustCreateProduct(t, db, "Laptop", "electronics")
	novel := mustCreateProduct(t, db, "Novel", "books")

	insertInteractionAt(t, db, 1, laptop, models.InteractionView, now.Add(-1*time.Hour), nil)
	insertInteractionAt(t, db, 1, laptop, models.InteractionLike, now.Add(-2*time.Hour), nil)
	insertInteractionAt(t, db, 1, novel, models.InteractionView, now.Add(-3*time.Hour), nil)
	insertInteractionAt(t, db, 1, novel, models.InteractionView, now.AddDate(0, 0, -10), nil)
	insertInteractionAt(t, db, 2, laptop, models.InteractionView, now, nil) // other user

	tests := []struct {
		name      string
		filter    models.HistoryFilter
		wantTotal int64
	}{
		{"no filters returns all own events", models.HistoryFilter{}, 4},
		{"type only", models.HistoryFilter{Type: typePtr(models.InteractionView)}, 3},
		{"product only", models.HistoryFilter{ProductID: int64Ptr(laptop)}, 2},
		{"window only", models.HistoryFilter{DaysBack: intPtr(7)}, 3},
		{
			"all filters conjunctive",
			models.HistoryFilter{
				Type:      typePtr(models.InteractionView),
				ProductID: int64Ptr(novel),
				DaysBack:  intPtr(7),
			},
			1,
		},
		{
			"conjunction can be empty",
			models.HistoryFilter{
				Type:      typePtr(models.InteractionLike),
				ProductID: int64Ptr(novel),
			},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := db.GetUserHistory(ctx, 1, tt.filter, 1, 20)
			if err != nil {
				t.Fatalf("GetUserHistory() error = %v", err)
			}
			if resp.TotalCount != tt.wantTotal {
				t.Errorf("TotalCount = %d, want %d", resp.TotalCount, tt.wantTotal)
			}
			if int64(len(resp.Interactions)) != tt.wantTotal {
				t.Errorf("page size = %d, want %d", len(resp.Interactions), tt.wantTotal)
			}
		})
	}
}

func TestGetUserHistoryOrdering(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	productID := mustCreateProduct(t, db, "Tablet", "electronics")

	// Two events share a timestamp; the higher id must come first.
	shared := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	first := insertInteractionAt(t, db, 1, productID, models.InteractionView, shared, nil)
	second := insertInteractionAt(t, db, 1, productID, models.InteractionLike, shared, nil)
	newest := insertInteractionAt(t, db, 1, productID, models.InteractionView, shared.Add(time.Minute), nil)

	resp, err := db.GetUserHistory(ctx, 1, models.HistoryFilter{}, 1, 20)
	if err != nil {
		t.Fatalf("GetUserHistory() error = %v", err)
	}
	if len(resp.Interactions) != 3 {
		t.Fatalf("expected 3 events, got %d", len(resp.Interactions))
	}

	gotIDs := []int64{resp.Interactions[0].ID, resp.Interactions[1].ID, resp.Interactions[2].ID}
	wantIDs := []int64{newest, second, first}
	for i := range wantIDs {
		if gotIDs[i] != wantIDs[i] {
			t.Fatalf("order = %v, want %v", gotIDs, wantIDs)
		}
	}
}

// Every event appears on exactly one page, and the total is the same on
// every page regardless of how the results are sliced.
func TestGetUserHistoryPaginationCompleteness(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()
	productID := mustCreateProduct(t, db, "Camera", "electronics")

	const totalEvents = 25
	for i := 0; i < totalEvents; i++ {
		insertInteractionAt(t, db, 1, productID, models.InteractionView, now.Add(-time.Duration(i)*time.Minute), nil)
	}

	const perPage = 7
	seen := make(map[int64]bool)
	for page := 1; ; page++ {
		resp, err := db.GetUserHistory(ctx, 1, models.HistoryFilter{}, page, perPage)
		if err != nil {
			t.Fatalf("GetUserHistory(page=%d) error = %v", page, err)
		}
		if resp.TotalCount != totalEvents {
			t.Errorf("page %d TotalCount = %d, want %d", page, resp.TotalCount, totalEvents)
		}
		if len(resp.Interactions) == 0 {
			break
		}
		for _, ev := range resp.Interactions {
			if seen[ev.ID] {
				t.Errorf("event %d appeared on more than one page", ev.ID)
			}
			seen[ev.ID] = true
		}
	}
	if len(seen) != totalEvents {
		t.Errorf("pages covered %d distinct events, want %d", len(seen), totalEvents)
	}
}

func TestGetUserHistoryPageBeyondRange(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	productID := mustCreateProduct(t, db, "Monitor", "electronics")

	insertInteractionAt(t, db, 1, productID, models.InteractionView, time.Now().UTC(), nil)

	resp, err := db.GetUserHistory(ctx, 1, models.HistoryFilter{}, 50, 20)
	if err != nil {
		t.Fatalf("GetUserHistory() error = %v", err)
	}
	if len(resp.Interactions) != 0 {
		t.Errorf("beyond-range page returned %d events, want 0", len(resp.Interactions))
	}
	if resp.TotalCount != 1 {
		t.Errorf("TotalCount = %d, want 1", resp.TotalCount)
	}
}

// Out-of-range window parameters are rejected with ErrInvalidInput before any
// query runs. The HTTP layer validates first; this keeps direct callers
// honest.
func TestRangeGuardsReturnInvalidInput(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"history page 0", func() error {
			_, err := db.GetUserHistory(ctx, 1, models.HistoryFilter{}, 0, 20)
			return err
		}},
		{"history per_page 101", func() error {
			_, err := db.GetUserHistory(ctx, 1, models.HistoryFilter{}, 1, 101)
			return err
		}},
		{"history days_back 366", func() error {
			_, err := db.GetUserHistory(ctx, 1, models.HistoryFilter{DaysBack: intPtr(366)}, 1, 20)
			return err
		}},
		{"user analytics days_back 0", func() error {
			_, err := db.GetUserAnalytics(ctx, 1, 0)
			return err
		}},
		{"product stats days_back 366", func() error {
			_, err := db.GetProductStats(ctx, 1, 366)
			return err
		}},
		{"bulk limit 1001", func() error {
			_, err := db.GetBulkInteractions(ctx, 1, models.BulkFilter{Limit: 1001})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestGetUserHistoryEmptyStore(t *testing.T) {
	db := setupTestDB(t)

	resp, err := db.GetUserHistory(context.Background(), 1, models.HistoryFilter{}, 1, 20)
	if err != nil {
		t.Fatalf("GetUserHistory() error = %v", err)
	}
	if resp.TotalCount != 0 || len(resp.Interactions) != 0 {
		t.Errorf("empty store: total = %d, events = %d", resp.TotalCount, len(resp.Interactions))
	}
}
