// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for the public content API:
// language negotiation, admin token checks, rate limiting and timeouts.
package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
)

// ContextKey namespaces the values this package stores in a request context.
type ContextKey string

// APIError is the error envelope shared with the API handlers.
type APIError struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// WriteAPIError writes the error envelope with statusCode.
func WriteAPIError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	var body APIError
	body.Error.Code, body.Error.Message, body.Error.Details = code, message, details

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// GetClientIP returns the address used to key per-client limits. X-Real-IP
// wins, then the first X-Forwarded-For hop, then the peer address.
func GetClientIP(r *http.Request) string {
	candidates := []string{r.Header.Get("X-Real-IP")}
	if hop, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ","); hop != "" {
		candidates = append(candidates, hop)
	}
	for _, c := range candidates {
		if ip := strings.TrimSpace(c); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
