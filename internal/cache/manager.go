// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Key prefixes shared by the content and navigation services.
const (
	PrefixContent = "content:"
	PrefixNav     = "nav:"
)

// Config selects and tunes the cache backend.
type Config struct {
	RedisURL   string
	Prefix     string
	DefaultTTL time.Duration
	MaxSize    int
}

// Manager owns the active backend and exposes invalidation and stats.
type Manager struct {
	backend Cache
	kind    string
	ttl     time.Duration
}

// New builds a Manager. A Redis URL selects Redis; if it cannot be reached
// the manager falls back to memory and logs a warning.
func New(cfg Config) *Manager {
	ttl := cfg.DefaultTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	if cfg.RedisURL != "" {
		rc, err := NewRedisCacheFromURL(cfg.RedisURL, cfg.Prefix, ttl)
		if err == nil {
			slog.Info("using redis cache", "prefix", cfg.Prefix)
			return &Manager{backend: rc, kind: "redis", ttl: ttl}
		}
		slog.Warn("redis unavailable, falling back to memory cache", "error", err)
	}

	mc := NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      ttl,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: time.Minute,
	})
	return &Manager{backend: mc, kind: "memory", ttl: ttl}
}

// NewManager wraps an existing backend.
func NewManager(backend Cache, kind string, ttl time.Duration) *Manager {
	return &Manager{backend: backend, kind: kind, ttl: ttl}
}

// Backend returns the underlying cache.
func (m *Manager) Backend() Cache {
	return m.backend
}

// Kind is "memory" or "redis".
func (m *Manager) Kind() string {
	return m.kind
}

// TTL is the default entry lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// InvalidateContent drops every content snapshot and resolved navigation
// forest. Called after any write.
func (m *Manager) InvalidateContent(ctx context.Context) error {
	return errors.Join(
		m.backend.DeleteByPrefix(ctx, PrefixContent),
		m.backend.DeleteByPrefix(ctx, PrefixNav),
	)
}

// InvalidateNavigation drops only resolved navigation forests.
func (m *Manager) InvalidateNavigation(ctx context.Context) error {
	return m.backend.DeleteByPrefix(ctx, PrefixNav)
}

// Clear removes everything and resets counters.
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.backend.Clear(ctx); err != nil {
		return err
	}
	if sp, ok := m.backend.(StatsProvider); ok {
		sp.ResetStats()
	}
	slog.Info("cache cleared", "backend", m.kind)
	return nil
}

// Stats returns backend counters, or zero stats when the backend keeps none.
func (m *Manager) Stats() Stats {
	if sp, ok := m.backend.(StatsProvider); ok {
		return sp.Stats()
	}
	return Stats{}
}

// Close releases the backend.
func (m *Manager) Close() error {
	return m.backend.Close()
}
