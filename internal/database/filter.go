// Shopgraph - Product Interaction Analytics Engine
// Copyright 2026 D. Reyes (dreyes-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dreyes-io/shopgraph

package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/dreyes-io/shopgraph/internal/models"
)

// Declared ranges for windowed query parameters. The HTTP layer validates
// them first; these guards keep direct callers of the data access layer
// honest too.
const (
	maxDaysBack  = 365
	maxPerPage   = 100
	maxBulkLimit = 1000
)

// validDaysBack reports whether daysBack lies in [1, 365].
func validDaysBack(daysBack int) bool {
	return daysBack >= 1 && daysBack <= maxDaysBack
}

// windowCutoff returns now - daysBack days in UTC. The window is anchored
// to request time and right-open: events at or after the cutoff are in.
func windowCutoff(daysBack int) time.Time {
	return time.Now().UTC().AddDate(0, 0, -daysBack)
}

// buildHistoryWhereClause builds the conjunctive WHERE clause for a
// history query. Starts with the owner scope and appends each supplied
// filter, so the empty filter degenerates to the caller's full history.
func buildHistoryWhereClause(userID int64, filter models.HistoryFilter) (string, []interface{}) {
	clauses := []string{"user_id = ?"}
	args := []interface{}{userID}

	if filter.Type != nil {
		clauses = append(clauses, "interaction_type = ?")
		args = append(args, filter.Type.String())
	}
	if filter.ProductID != nil {
		clauses = append(clauses, "product_id = ?")
		args = append(args, *filter.ProductID)
	}
	if filter.DaysBack != nil {
		clauses = append(clauses, "occurred_at >= ?")
		args = append(args, windowCutoff(*filter.DaysBack))
	}

	return strings.Join(clauses, " AND "), args
}

// appendInClause appends "column IN (?, ...)" with its args for a non-empty
// value set. Empty sets append nothing.
func appendInClause(column string, values []interface{}, clauses *[]string, args *[]interface{}) {
	if len(values) == 0 {
		return
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		*args = append(*args, v)
	}
	*clauses = append(*clauses, fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")))
}

// buildBulkWhereClause builds the WHERE clause for bulk retrieval: owner
// scope plus product-id and type membership.
func buildBulkWhereClause(userID int64, filter models.BulkFilter) (string, []interface{}) {
	clauses := []string{"user_id = ?"}
	args := []interface{}{userID}

	productIDs := make([]interface{}, len(filter.ProductIDs))
	for i, id := range filter.ProductIDs {
		productIDs[i] = id
	}
	appendInClause("product_id", productIDs, &clauses, &args)

	types := make([]interface{}, len(filter.Types))
	for i, t := range filter.Types {
		types[i] = t.String()
	}
	appendInClause("interaction_type", types, &clauses, &args)

	return strings.Join(clauses, " AND "), args
}
