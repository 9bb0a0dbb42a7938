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

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/dreyes-io/shopgraph/internal/metrics"
	"github.com/dreyes-io/shopgraph/internal/models"
)

func TestCreateInteraction(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	productID := mustCreateProduct(t, db, "Mechanical Keyboard", "electronics")

	quantity := int64(2)
	sessionID := "sess-abc123"
	req := &models.CreateInteractionRequest{
		ProductID: productID,
		Type:      models.InteractionPurchase,
		Quantity:  &quantity,
		SessionID: &sessionID,
		Metadata:  map[string]interface{}{"source": "search", "position": float64(3)},
	}

	before := time.Now().UTC().Add(-time.Second)
	event, err := db.CreateInteraction(ctx, 42, req)
	if err != nil {
		t.Fatalf("CreateInteraction() error = %v", err)
	}

	if event.ID <= 0 {
		t.Errorf("expected store-assigned positive id, got %d", event.ID)
	}
	if event.UserID != 42 || event.ProductID != productID {
		t.Errorf("owner/product mismatch: got user %d product %d", event.UserID, event.ProductID)
	}
	if event.Type != models.InteractionPurchase {
		t.Errorf("type = %q, want purchase", event.Type)
	}
	if event.Timestamp.Before(before) || event.Timestamp.After(time.Now().UTC().Add(time.Second)) {
		t.Errorf("timestamp %v not store-assigned near now", event.Timestamp)
	}
	if event.Quantity == nil || *event.Quantity != 2 {
		t.Errorf("quantity not preserved: %v", event.Quantity)
	}
	if event.SessionID == nil || *event.SessionID != sessionID {
		t.Errorf("session_id not preserved: %v", event.SessionID)
	}
}

func TestCreateInteractionUnknownProduct(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.CreateInteraction(context.Background(), 1, &models.CreateInteractionRequest{
		ProductID: 99999,
		Type:      models.InteractionView,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("CreateInteraction() with unknown product = %v, want ErrNotFound", err)
	}
}

// Optional fields persist whatever the caller sent, for any type. A view
// carrying a rating value and an out-of-band rating value are both stored
// verbatim.
func TestCreateInteractionPermissiveFields(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	productID := mustCreateProduct(t, db, "Desk Lamp", "home")

	tests := []struct {
		name string
		req  models.CreateInteractionRequest
	}{
		{
			name: "view with rating value",
			req: models.CreateInteractionRequest{
				ProductID:   productID,
				Type:        models.InteractionView,
				RatingValue: floatPtr(4.0),
			},
		},
		{
			name: "rating outside conventional range",
			req: models.CreateInteractionRequest{
				ProductID:   productID,
				Type:        models.InteractionRating,
				RatingValue: floatPtr(11.0),
			},
		},
		{
			name: "purchase without quantity",
			req: models.CreateInteractionRequest{
				ProductID: productID,
				Type:      models.InteractionPurchase,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := db.CreateInteraction(ctx, 7, &tt.req)
			if err != nil {
				t.Fatalf("CreateInteraction() error = %v", err)
			}
			if (event.RatingValue == nil) != (tt.req.RatingValue == nil) {
				t.Errorf("rating_value presence mismatch: got %v", event.RatingValue)
			}
			if tt.req.RatingValue != nil && *event.RatingValue != *tt.req.RatingValue {
				t.Errorf("rating_value = %v, want %v", *event.RatingValue, *tt.req.RatingValue)
			}
		})
	}
}

func TestCreateInteractionMonotonicIDs(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	productID := mustCreateProduct(t, db, "Water Bottle", "sports")

	var lastID int64
	for i := 0; i < 5; i++ {
		event, err := db.CreateInteraction(ctx, 3, &models.CreateInteractionRequest{
			ProductID: productID,
			Type:      models.InteractionView,
		})
		if err != nil {
			t.Fatalf("CreateInteraction() error = %v", err)
		}
		if event.ID <= lastID {
			t.Fatalf("id %d not greater than previous %d", event.ID, lastID)
		}
		lastID = event.ID
	}
}

func TestCreateInteractionMetadataRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	productID := mustCreateProduct(t, db, "Graphic Novel", "books")

	event, err := db.CreateInteraction(ctx, 9, &models.CreateInteractionRequest{
		ProductID: productID,
		Type:      models.InteractionLike,
		Metadata:  map[string]interface{}{"referrer": "email", "campaign": "spring"},
	})
	if err != nil {
		t.Fatalf("CreateInteraction() error = %v", err)
	}

	history, err := db.GetUserHistory(ctx, 9, models.HistoryFilter{}, 1, 20)
	if err != nil {
		t.Fatalf("GetUserHistory() error = %v", err)
	}
	if len(history.Interactions) != 1 {
		t.Fatalf("expected 1 event, got %d", len(history.Interactions))
	}
	got := history.Interactions[0]
	if got.ID != event.ID {
		t.Errorf("id = %d, want %d", got.ID, event.ID)
	}
	if got.Metadata["referrer"] != "email" || got.Metadata["campaign"] != "spring" {
		t.Errorf("metadata not preserved: %v", got.Metadata)
	}
}

func TestDeleteInteraction(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	productID := mustCreateProduct(t, db, "Running Shoes", "sports")

	event, err := db.CreateInteraction(ctx, 5, &models.CreateInteractionRequest{
		ProductID: productID,
		Type:      models.InteractionLike,
	})
	if err != nil {
		t.Fatalf("CreateInteraction() error = %v", err)
	}

	if err := db.DeleteInteraction(ctx, 5, event.ID); err != nil {
		t.Fatalf("DeleteInteraction() error = %v", err)
	}

	history, err := db.GetUserHistory(ctx, 5, models.HistoryFilter{}, 1, 20)
	if err != nil {
		t.Fatalf("GetUserHistory() error = %v", err)
	}
	if history.TotalCount != 0 {
		t.Errorf("event still present after delete, total = %d", history.TotalCount)
	}
}

// Deleting an interaction that does not exist and one owned by another
// user must produce the same error; the signal never reveals whether the
// record exists.
func TestDeleteInteractionOwnerScope(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	productID := mustCreateProduct(t, db, "Blender", "home")

	event, err := db.CreateInteraction(ctx, 10, &models.CreateInteractionRequest{
		ProductID: productID,
		Type:      models.InteractionView,
	})
	if err != nil {
		t.Fatalf("CreateInteraction() error = %v", err)
	}

	errAbsent := db.DeleteInteraction(ctx, 10, event.ID+1000)
	errNotOwned := db.DeleteInteraction(ctx, 11, event.ID)

	if !errors.Is(errAbsent, ErrNotFound) {
		t.Errorf("delete absent = %v, want ErrNotFound", errAbsent)
	}
	if !errors.Is(errNotOwned, ErrNotFound) {
		t.Errorf("delete not-owned = %v, want ErrNotFound", errNotOwned)
	}

	// The owner's record survives the foreign delete attempt.
	history, err := db.GetUserHistory(ctx, 10, models.HistoryFilter{}, 1, 20)
	if err != nil {
		t.Fatalf("GetUserHistory() error = %v", err)
	}
	if history.TotalCount != 1 {
		t.Errorf("owner's event gone after foreign delete, total = %d", history.TotalCount)
	}
}

func TestGetBulkInteractions(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	laptop := mustCreateProduct(t, db, "Laptop", "electronics")
	phone := mustCreateProduct(t, db, "Phone", "electronics")
	novel := mustCreateProduct(t, db, "Novel", "books")

	insertInteractionAt(t, db, 1, laptop, models.InteractionView, now.Add(-3*time.Hour), nil)
	insertInteractionAt(t, db, 1, phone, models.InteractionLike, now.Add(-2*time.Hour), nil)
	insertInteractionAt(t, db, 1, novel, models.InteractionView, now.Add(-1*time.Hour), nil)
	insertInteractionAt(t, db, 2, laptop, models.InteractionView, now, nil) // other user

	events, err := db.GetBulkInteractions(ctx, 1, models.BulkFilter{
		ProductIDs: []int64{laptop, phone},
		Types:      []models.InteractionType{models.InteractionView, models.InteractionLike},
		Limit:      100,
	})
	if err != nil {
		t.Fatalf("GetBulkInteractions() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	// Newest first: phone like precedes laptop view.
	if events[0].ProductID != phone || events[1].ProductID != laptop {
		t.Errorf("unexpected order: %d then %d", events[0].ProductID, events[1].ProductID)
	}
	for _, ev := range events {
		if ev.UserID != 1 {
			t.Errorf("bulk result leaked user %d's event", ev.UserID)
		}
	}
}

func TestGetBulkInteractionsLimit(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()
	productID := mustCreateProduct(t, db, "Headphones", "electronics")

	for i := 0; i < 10; i++ {
		insertInteractionAt(t, db, 1, productID, models.InteractionView, now.Add(-time.Duration(i)*time.Minute), nil)
	}

	events, err := db.GetBulkInteractions(ctx, 1, models.BulkFilter{
		ProductIDs: []int64{productID},
		Types:      []models.InteractionType{models.InteractionView},
		Limit:      3,
	})
	if err != nil {
		t.Fatalf("GetBulkInteractions() error = %v", err)
	}
	if len(events) != 3 {
		t.Errorf("limit not applied: got %d events", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Timestamp.After(events[i-1].Timestamp) {
			t.Errorf("events not newest-first at index %d", i)
		}
	}
}

// Data access calls feed the query histogram; an idle collector here means
// the instrumentation came unwired.
func TestQueriesRecordMetrics(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	productID := mustCreateProduct(t, db, "Webcam", "electronics")

	if _, err := db.CreateInteraction(ctx, 1, &models.CreateInteractionRequest{
		ProductID: productID,
		Type:      models.InteractionView,
	}); err != nil {
		t.Fatalf("CreateInteraction() error = %v", err)
	}
	if _, err := db.GetUserHistory(ctx, 1, models.HistoryFilter{}, 1, 20); err != nil {
		t.Fatalf("GetUserHistory() error = %v", err)
	}
	if _, err := db.GetProductStats(ctx, productID, 30); err != nil {
		t.Fatalf("GetProductStats() error = %v", err)
	}

	// One series per recorded operation label.
	if series := testutil.CollectAndCount(metrics.DBQueryDuration); series < 3 {
		t.Errorf("DBQueryDuration series = %d, want at least insert, select_history and select_product_stats", series)
	}
}
