// Shopgraph - Product Interaction Analytics Engine
// Copyright 2026 D. Reyes (dreyes-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dreyes-io/shopgraph

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/dreyes-io/shopgraph/internal/auth"
	"github.com/dreyes-io/shopgraph/internal/config"
	"github.com/dreyes-io/shopgraph/internal/database"
	"github.com/dreyes-io/shopgraph/internal/models"
)

// testDBSemaphore serializes DuckDB usage across API tests; concurrent
// CGO calls can hang under CI resource pressure.
var testDBSemaphore = make(chan struct{}, 1)

var testDBMutex sync.Mutex

type testAPI struct {
	db     *database.DB
	router http.Handler
}

// setupTestAPI builds a full handler stack over an in-memory database.
// Identity resolution runs in development mode, so tests authenticate
// with the X-User-ID header.
func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	cfg := &config.Config{}
	cfg.Database.Path = ":memory:"
	cfg.Database.MaxMemory = "1GB"
	cfg.Auth.Enabled = false
	cfg.API.CatalogCacheTTL = time.Minute
	cfg.Security.RateLimitDisabled = true
	cfg.Security.CORSOrigins = []string{"*"}

	testDBMutex.Lock()
	db, err := database.New(&cfg.Database)
	testDBMutex.Unlock()
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close test database: %v", err)
		}
	})

	handler := NewHandler(db, cfg, nil, nil)
	identity := auth.NewIdentity(nil, false)
	chiMW := NewChiMiddlewareFromConfig(cfg.Security.CORSOrigins, 100, time.Minute, true)
	router := NewRouter(handler, identity, chiMW).Setup()

	return &testAPI{db: db, router: router}
}

// do performs a request as the given user and returns the recorder.
func (a *testAPI) do(t *testing.T, method, target string, userID int64, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, target, reader)
	if body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	if userID > 0 {
		r.Header.Set("X-User-ID", strconv.FormatInt(userID, 10))
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, r)
	return rec
}

// envelope mirrors models.APIResponse with a raw Data payload so tests
// can decode it into the expected concrete type.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

func requireErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()

	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Status != "error" || env.Error == nil || env.Error.Code != code {
		t.Fatalf("error envelope = %+v, want code %s", env, code)
	}
}

func (a *testAPI) mustCreateProduct(t *testing.T, name, category string) int64 {
	t.Helper()

	product, err := a.db.CreateProduct(context.Background(), &models.Product{
		Name:     name,
		Category: category,
		Price:    19.99,
	})
	if err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}
	return product.ID
}
