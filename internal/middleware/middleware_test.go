// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/olegiv/creative-api/internal/locale"
)

// simpleOKHandler returns an http.Handler that writes 200 OK.
var simpleOKHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func decodeAPIError(t *testing.T, rr *httptest.ResponseRecorder) APIError {
	t.Helper()
	var apiErr APIError
	if err := json.NewDecoder(rr.Body).Decode(&apiErr); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return apiErr
}

func TestWriteAPIError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteAPIError(rr, http.StatusBadRequest, "bad_request", "Invalid ordering", map[string]string{"ordering": "title"})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	apiErr := decodeAPIError(t, rr)
	if apiErr.Error.Code != "bad_request" || apiErr.Error.Details["ordering"] != "title" {
		t.Errorf("unexpected body: %+v", apiErr)
	}
}

func TestLanguage(t *testing.T) {
	set := locale.MustSet("en", "es", "az", "ru")

	tests := []struct {
		name    string
		target  string
		headers map[string]string
		want    string
	}{
		{"default", "/", nil, "en"},
		{"query", "/?lang=es", nil, "es"},
		{"query regional", "/?lang=ru-RU", nil, "ru"},
		{"query unsupported", "/?lang=fr", nil, "en"},
		{"header", "/", map[string]string{"X-Language": "AZ"}, "az"},
		{"query beats header", "/?lang=es", map[string]string{"X-Language": "ru"}, "es"},
		{"accept language", "/", map[string]string{"Accept-Language": "ru-RU,ru;q=0.9,en;q=0.8"}, "ru"},
		{"accept language unsupported", "/", map[string]string{"Accept-Language": "ja"}, "en"},
		{"header beats accept language", "/", map[string]string{"X-Language": "es", "Accept-Language": "ru"}, "es"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			handler := Language(set)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = GetLanguage(r)
			}))

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if got != tt.want {
				t.Errorf("GetLanguage() = %q, want %q", got, tt.want)
			}
			if cl := rr.Header().Get("Content-Language"); cl != tt.want {
				t.Errorf("Content-Language = %q, want %q", cl, tt.want)
			}
		})
	}
}

func TestGetLanguageWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetLanguage(req); got != "" {
		t.Errorf("GetLanguage() = %q, want empty", got)
	}
}

func TestAdminToken(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		header string
		want   int
	}{
		{"valid", "s3cret", "Bearer s3cret", http.StatusOK},
		{"scheme case", "s3cret", "bearer s3cret", http.StatusOK},
		{"wrong token", "s3cret", "Bearer nope", http.StatusUnauthorized},
		{"missing header", "s3cret", "", http.StatusUnauthorized},
		{"wrong scheme", "s3cret", "Basic s3cret", http.StatusUnauthorized},
		{"disabled", "", "Bearer anything", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var admin bool
			handler := AdminToken(tt.token)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				admin = IsAdmin(r)
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/contact", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Errorf("Status = %d, want %d", rr.Code, tt.want)
			}
			if tt.want == http.StatusOK && !admin {
				t.Error("IsAdmin() = false for accepted request")
			}
		})
	}
}

func TestOptionalAdminToken(t *testing.T) {
	var admin bool
	handler := OptionalAdminToken("s3cret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		admin = IsAdmin(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if admin {
		t.Error("anonymous request marked admin")
	}

	req.Header.Set("Authorization", "Bearer s3cret")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if !admin {
		t.Error("request with token not marked admin")
	}

	disabled := OptionalAdminToken("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		admin = IsAdmin(r)
	}))
	req.Header.Set("Authorization", "Bearer ")
	disabled.ServeHTTP(httptest.NewRecorder(), req)
	if admin {
		t.Error("empty token must never authenticate")
	}
}

func TestGlobalRateLimiter(t *testing.T) {
	rl := NewGlobalRateLimiter(0.001, 2)
	handler := rl.Middleware()(simpleOKHandler)

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/blog", nil)
		req.RemoteAddr = ip + ":4321"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	for i := range 2 {
		if code := do("10.0.0.1"); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, code)
		}
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/blog", nil)
	req.RemoteAddr = "10.0.0.1:4321"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("third request: status = %d, want 429", rr.Code)
	}
	if got := rr.Header().Get("Retry-After"); got != "1000" {
		t.Errorf("Retry-After = %q, want 1000", got)
	}
	if code := do("10.0.0.2"); code != http.StatusOK {
		t.Errorf("other client: status = %d, want 200", code)
	}

	rl.Cleanup(1)
	if n := rl.clients.size(); n != 0 {
		t.Errorf("cache size after cleanup = %d, want 0", n)
	}
	if code := do("10.0.0.1"); code != http.StatusOK {
		t.Errorf("after cleanup: status = %d, want 200", code)
	}
}

func TestClientLimitersPruneIdleFirst(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := newClientLimiters(1, 1)
	c.now = func() time.Time { return now }

	c.allow("old")
	now = now.Add(idleAfter + time.Minute)
	c.allow("fresh")

	if n := c.prune(2); n != 0 {
		t.Errorf("prune under the limit forgot %d clients", n)
	}
	if n := c.prune(1); n != 1 {
		t.Errorf("prune forgot %d clients, want 1", n)
	}
	if _, ok := c.clients["fresh"]; !ok {
		t.Error("recently seen client was forgotten")
	}

	c.allow("another")
	if n := c.prune(1); n != 2 {
		t.Errorf("prune with only active clients forgot %d, want all 2", n)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "192.0.2.1:1234", "192.0.2.1"},
		{"remote addr without port", nil, "192.0.2.1", "192.0.2.1"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.7"}, "192.0.2.1:1234", "198.51.100.7"},
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "192.0.2.1:1234", "203.0.113.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := GetClientIP(req); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTimeoutMiddlewareNormalRequest(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("success"))
	})

	rr := httptest.NewRecorder()
	Timeout(5*time.Second)(handler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusOK)
	}
	if body := rr.Body.String(); body != "success" {
		t.Errorf("Body = %q, want %q", body, "success")
	}
}

func TestTimeoutMiddlewareSlowRequest(t *testing.T) {
	var late atomic.Bool
	finished := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(finished)
		<-r.Context().Done()
		time.Sleep(50 * time.Millisecond)
		if _, err := w.Write([]byte("late")); err == nil {
			late.Store(true)
		}
	})

	rr := httptest.NewRecorder()
	Timeout(20*time.Millisecond)(handler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	<-finished

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
	if late.Load() {
		t.Error("write after timeout was accepted")
	}
	if strings.Contains(rr.Body.String(), "late") {
		t.Error("late body leaked into response")
	}
}

func TestSecurityHeaders(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(false)
	cfg.ExcludePaths = []string{"/health"}
	handler := SecurityHeaders(cfg)(simpleOKHandler)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/faqs", nil))

	want := map[string]string{
		"Content-Security-Policy":   "default-src 'none'; frame-ancestors 'none'; base-uri 'none'",
		"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
		"X-Frame-Options":           "DENY",
		"X-Content-Type-Options":    "nosniff",
		"Referrer-Policy":           "no-referrer",
	}
	for k, v := range want {
		if got := rr.Header().Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if got := rr.Header().Get("X-Frame-Options"); got != "" {
		t.Errorf("excluded path got X-Frame-Options %q", got)
	}
}

func TestSecurityHeadersDevelopmentSkipsHSTS(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(DefaultSecurityHeadersConfig(true))(simpleOKHandler).
		ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rr.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("HSTS in development = %q", got)
	}
}

func TestBuildCSP(t *testing.T) {
	got := buildCSP(map[string]string{
		"img-src":     "'self'",
		"default-src": "'none'",
		"connect-src": "'self'",
	})
	want := "default-src 'none'; connect-src 'self'; img-src 'self'"
	if got != want {
		t.Errorf("buildCSP() = %q, want %q", got, want)
	}
}
