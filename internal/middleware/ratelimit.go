// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleAfter is how long a client must be quiet before Cleanup may forget it.
const idleAfter = 10 * time.Minute

type clientLimiter struct {
	lim  *rate.Limiter
	seen time.Time
}

// clientLimiters holds one token bucket per client key.
type clientLimiters struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

func newClientLimiters(rps float64, burst int) *clientLimiters {
	return &clientLimiters{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

// allow takes a token from key's bucket, creating the bucket on first use.
func (c *clientLimiters) allow(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	cl, ok := c.clients[key]
	if !ok {
		cl = &clientLimiter{lim: rate.NewLimiter(c.limit, c.burst)}
		c.clients[key] = cl
	}
	cl.seen = now
	return cl.lim.AllowN(now, 1)
}

// prune forgets idle clients once more than maxClients are tracked, and
// everyone if that is not enough. It returns the number forgotten.
func (c *clientLimiters) prune(maxClients int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := len(c.clients)
	if before <= maxClients {
		return 0
	}
	cutoff := c.now().Add(-idleAfter)
	for k, cl := range c.clients {
		if cl.seen.Before(cutoff) {
			delete(c.clients, k)
		}
	}
	if len(c.clients) > maxClients {
		clear(c.clients)
	}
	return before - len(c.clients)
}

func (c *clientLimiters) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.clients)
}

// retryAfter is the whole number of seconds until one token refills.
func (c *clientLimiters) retryAfter() string {
	if c.limit <= 0 || c.limit == rate.Inf {
		return "1"
	}
	return strconv.Itoa(int(math.Ceil(1 / float64(c.limit))))
}

// GlobalRateLimiter limits requests per client IP.
type GlobalRateLimiter struct {
	clients *clientLimiters
}

// NewGlobalRateLimiter allows rps requests per second per client with bursts
// up to burst.
func NewGlobalRateLimiter(rps float64, burst int) *GlobalRateLimiter {
	return &GlobalRateLimiter{clients: newClientLimiters(rps, burst)}
}

// Cleanup bounds the tracked clients to maxClients.
func (rl *GlobalRateLimiter) Cleanup(maxClients int) {
	if n := rl.clients.prune(maxClients); n > 0 {
		slog.Debug("rate limiter clients forgotten", "count", n, "max_clients", maxClients)
	}
}

// Middleware rejects clients over their limit with a 429 JSON error and a
// Retry-After header.
func (rl *GlobalRateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := GetClientIP(r)
			if rl.clients.allow(ip) {
				next.ServeHTTP(w, r)
				return
			}
			slog.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", rl.clients.retryAfter())
			WriteAPIError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "Rate limit exceeded. Please slow down.", nil)
		})
	}
}
