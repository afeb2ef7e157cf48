// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
)

// ContextKeyAdmin marks requests that presented the admin token.
const ContextKeyAdmin ContextKey = "admin"

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func tokenMatches(r *http.Request, token string) bool {
	got, ok := bearerToken(r)
	if !ok || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(token)) == 1
}

// AdminToken requires a matching bearer token. An empty configured token
// disables the protected routes entirely.
func AdminToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				WriteAPIError(w, http.StatusForbidden, "forbidden", "Admin access is disabled", nil)
				return
			}
			if _, ok := bearerToken(r); !ok {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Missing or malformed Authorization header. Use: Bearer <token>", nil)
				return
			}
			if !tokenMatches(r, token) {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid token", nil)
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeyAdmin, true)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAdminToken marks the request as admin when it carries the matching
// token and passes every request through.
func OptionalAdminToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenMatches(r, token) {
				r = r.WithContext(context.WithValue(r.Context(), ContextKeyAdmin, true))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IsAdmin reports whether the request was authenticated with the admin token.
func IsAdmin(r *http.Request) bool {
	ok, _ := r.Context().Value(ContextKeyAdmin).(bool)
	return ok
}
