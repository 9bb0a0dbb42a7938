// Shopgraph - Product Interaction Analytics Engine
// Copyright 2026 D. Reyes (dreyes-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dreyes-io/shopgraph

package models

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestInteractionTypeValid(t *testing.T) {
	tests := []struct {
		name  string
		input InteractionType
		want  bool
	}{
		{"view", InteractionView, true},
		{"like", InteractionLike, true},
		{"add_to_cart", InteractionAddToCart, true},
		{"purchase", InteractionPurchase, true},
		{"rating", InteractionRating, true},
		{"empty", InteractionType(""), false},
		{"unknown", InteractionType("click"), false},
		{"case sensitive", InteractionType("View"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.input.Valid(); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestAllInteractionTypesCoversEnum(t *testing.T) {
	all := AllInteractionTypes()
	if len(all) != 5 {
		t.Fatalf("expected 5 interaction types, got %d", len(all))
	}
	seen := make(map[InteractionType]bool, len(all))
	for _, typ := range all {
		if !typ.Valid() {
			t.Errorf("enumeration member %q fails Valid()", typ)
		}
		if seen[typ] {
			t.Errorf("duplicate enumeration member %q", typ)
		}
		seen[typ] = true
	}
}

func TestUserAnalyticsOmitsAbsentAverage(t *testing.T) {
	a := UserAnalytics{
		MostViewedCategories: []CategoryViewCount{},
		MostLikedProducts:    []LikedProduct{},
		RecentActivity:       []InteractionEvent{},
	}

	out, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(out), "average_rating") {
		t.Errorf("absent average must be omitted, got %s", out)
	}

	avg := 4.5
	a.AverageRating = &avg
	out, err = json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"average_rating":4.5`) {
		t.Errorf("present average must be emitted, got %s", out)
	}
}

func TestProductStatsRatioPresence(t *testing.T) {
	s := ProductStats{ProductID: 7, TotalCartAdditions: 3}
	out, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// No views: the ratio must be absent from the wire, not zero.
	if strings.Contains(string(out), "view_to_cart_ratio") {
		t.Errorf("absent ratio must be omitted, got %s", out)
	}

	ratio := 1.4
	s.ViewToCartRatio = &ratio
	out, err = json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// Above 1 is a legitimate value and must survive serialization intact.
	if !strings.Contains(string(out), `"view_to_cart_ratio":1.4`) {
		t.Errorf("ratio > 1 must serialize as-is, got %s", out)
	}
}

func TestInteractionEventRoundTripOptionalFields(t *testing.T) {
	payload := `{"id":9,"user_id":2,"product_id":5,"interaction_type":"view","timestamp":"2026-08-01T10:00:00Z","rating_value":3.5,"metadata":{"source":"search"}}`

	var ev InteractionEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	// A view carrying a rating value is stored as given, never rejected.
	if ev.Type != InteractionView {
		t.Errorf("type = %q, want view", ev.Type)
	}
	if ev.RatingValue == nil || *ev.RatingValue != 3.5 {
		t.Errorf("rating_value not preserved: %v", ev.RatingValue)
	}
	if ev.Quantity != nil {
		t.Errorf("absent quantity must stay nil, got %v", *ev.Quantity)
	}
	if ev.Metadata["source"] != "search" {
		t.Errorf("metadata not preserved: %v", ev.Metadata)
	}
}
