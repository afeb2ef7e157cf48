// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"

	"github.com/olegiv/creative-api/internal/locale"
)

// ContextKeyLanguage holds the negotiated language code.
const ContextKeyLanguage ContextKey = "language"

// LanguageHeader is the explicit request header for the content language.
const LanguageHeader = "X-Language"

// Language negotiates the content language for each request. Priority order:
//  1. Query parameter ?lang=XX
//  2. X-Language header
//  3. Accept-Language header, matched against the supported set
//  4. The default language
//
// Unsupported explicit codes fall back to the default rather than being
// rejected. The chosen code is echoed in Content-Language.
func Language(set *locale.Set) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := negotiate(set, r)
			w.Header().Set("Content-Language", code)
			w.Header().Add("Vary", "Accept-Language")
			next.ServeHTTP(w, r.WithContext(WithLanguage(r.Context(), code)))
		})
	}
}

func negotiate(set *locale.Set, r *http.Request) string {
	if q := r.URL.Query().Get("lang"); q != "" {
		return set.Normalize(q)
	}
	if h := r.Header.Get(LanguageHeader); h != "" {
		return set.Normalize(h)
	}
	return set.Match(r.Header.Get("Accept-Language"))
}

// WithLanguage stores code in ctx.
func WithLanguage(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, ContextKeyLanguage, code)
}

// GetLanguage returns the negotiated language code, or "" when the Language
// middleware did not run.
func GetLanguage(r *http.Request) string {
	code, _ := r.Context().Value(ContextKeyLanguage).(string)
	return code
}
