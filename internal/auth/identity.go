// Shopgraph - Product Interaction Analytics Engine
// Copyright 2026 D. Reyes (dreyes-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dreyes-io/shopgraph

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// devUserIDHeader carries the caller identity when auth is disabled for
// local development. Production configuration validation refuses a
// disabled auth setup, so this header is never honored in production.
const devUserIDHeader = "X-User-ID"

type contextKey string

const userIDKey contextKey = "user_id"

// ErrUnauthenticated is returned when no valid caller identity can be
// resolved from the request.
var ErrUnauthenticated = errors.New("unauthenticated")

// ContextWithUserID returns a context carrying the authenticated user id.
func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext extracts the authenticated user id from the context.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// Identity resolves the caller's user id from an HTTP request.
type Identity struct {
	jwtManager *JWTManager
	enabled    bool
}

// NewIdentity builds an identity resolver. With auth enabled the resolver
// requires a valid bearer token; disabled, it falls back to the
// development header.
func NewIdentity(jwtManager *JWTManager, enabled bool) *Identity {
	return &Identity{
		jwtManager: jwtManager,
		enabled:    enabled,
	}
}

// Resolve extracts the caller's user id from the request.
func (i *Identity) Resolve(r *http.Request) (int64, error) {
	if !i.enabled {
		return i.resolveDevHeader(r)
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return 0, fmt.Errorf("missing Authorization header: %w", ErrUnauthenticated)
	}

	tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || tokenString == "" {
		return 0, fmt.Errorf("malformed Authorization header: %w", ErrUnauthenticated)
	}

	claims, err := i.jwtManager.ValidateToken(tokenString)
	if err != nil {
		return 0, fmt.Errorf("token rejected: %w", ErrUnauthenticated)
	}

	userID, err := claims.UserID()
	if err != nil {
		return 0, fmt.Errorf("%v: %w", err, ErrUnauthenticated)
	}

	return userID, nil
}

func (i *Identity) resolveDevHeader(r *http.Request) (int64, error) {
	raw := r.Header.Get(devUserIDHeader)
	if raw == "" {
		return 0, fmt.Errorf("missing %s header: %w", devUserIDHeader, ErrUnauthenticated)
	}

	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("invalid %s header %q: %w", devUserIDHeader, raw, ErrUnauthenticated)
	}

	return userID, nil
}
