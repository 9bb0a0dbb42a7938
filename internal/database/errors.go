// Shopgraph - Product Interaction Analytics Engine
// Copyright 2026 D. Reyes (dreyes-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dreyes-io/shopgraph

package database

import (
	"errors"
)

// Sentinel errors surfaced by the data access layer. Callers match them
// with errors.Is to translate into transport-level failures.
var (
	// ErrNotFound covers a missing product, a missing interaction, and a
	// delete of an interaction the caller does not own. The last two are
	// deliberately indistinguishable so the existence of other users'
	// records is never leaked.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidInput marks a parameter outside its declared range or
	// enumeration, detected before any query executes.
	ErrInvalidInput = errors.New("invalid input")
)
