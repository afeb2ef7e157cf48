// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryCache keeps snapshots in process. Values are copied on the way in and
// out, so callers may reuse their slices.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]snapshotEntry
	ttl     time.Duration
	limit   int
	bytes   int64
	stats   Stats
	done    chan struct{}
	closed  bool
}

type snapshotEntry struct {
	data    []byte
	expires time.Time
}

func (e snapshotEntry) expired(now time.Time) bool {
	return now.After(e.expires)
}

// MemoryCacheOptions configures the memory cache.
type MemoryCacheOptions struct {
	DefaultTTL time.Duration

	// MaxSize caps the number of entries. Zero means unbounded.
	MaxSize int

	// CleanupInterval sweeps expired entries in the background. Zero disables
	// the sweep; expired entries are then dropped lazily on read.
	CleanupInterval time.Duration
}

// NewMemoryCache creates a memory cache.
func NewMemoryCache(opts MemoryCacheOptions) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]snapshotEntry),
		ttl:     opts.DefaultTTL,
		limit:   opts.MaxSize,
		done:    make(chan struct{}),
	}
	if opts.CleanupInterval > 0 {
		go c.sweepEvery(opts.CleanupInterval)
	}
	return c
}

// NewSimpleMemoryCache creates an unbounded cache swept once a minute.
func NewSimpleMemoryCache(ttl time.Duration) *MemoryCache {
	return NewMemoryCache(MemoryCacheOptions{DefaultTTL: ttl, CleanupInterval: time.Minute})
}

// lookup returns the live entry for key, dropping it if expired. c.mu must be
// held.
func (c *MemoryCache) lookup(key string, now time.Time) (snapshotEntry, bool) {
	e, ok := c.entries[key]
	if !ok {
		return e, false
	}
	if e.expired(now) {
		c.remove(key)
		return e, false
	}
	return e, true
}

// remove deletes key and adjusts the byte count. c.mu must be held.
func (c *MemoryCache) remove(key string) {
	if e, ok := c.entries[key]; ok {
		c.bytes -= int64(len(e.data))
		delete(c.entries, key)
	}
}

// Get returns a copy of the value stored under key.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrCacheClosed
	}

	e, ok := c.lookup(key, time.Now())
	if !ok {
		c.stats.Misses++
		return nil, ErrCacheMiss
	}
	c.stats.Hits++
	return append([]byte(nil), e.data...), nil
}

// Set stores a copy of value. A full cache first drops expired entries, then
// the entry that would expire soonest. Overwriting a key never evicts.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrCacheClosed
	}
	if ttl == 0 {
		ttl = c.ttl
	}

	now := time.Now()
	if _, exists := c.entries[key]; !exists && c.limit > 0 && len(c.entries) >= c.limit {
		c.purge(now)
		if len(c.entries) >= c.limit {
			c.evictSoonest()
		}
	}

	c.remove(key)
	c.entries[key] = snapshotEntry{data: append([]byte(nil), value...), expires: now.Add(ttl)}
	c.bytes += int64(len(value))
	c.stats.Sets++
	return nil
}

// Delete removes key.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrCacheClosed
	}
	c.remove(key)
	return nil
}

// DeleteByPrefix removes every key starting with prefix.
func (c *MemoryCache) DeleteByPrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrCacheClosed
	}
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			c.remove(k)
		}
	}
	return nil
}

// Clear removes every entry.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrCacheClosed
	}
	clear(c.entries)
	c.bytes = 0
	return nil
}

// Has reports whether a live entry exists for key.
func (c *MemoryCache) Has(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false, ErrCacheClosed
	}
	_, ok := c.lookup(key, time.Now())
	return ok, nil
}

// Close stops the background sweep. It is safe to call more than once.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.done)
	}
	return nil
}

// Stats returns the current counters.
func (c *MemoryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Items = len(c.entries)
	s.Size = c.bytes
	s.HitRate = hitRate(s.Hits, s.Misses)
	return s
}

// ResetStats zeroes the hit, miss and set counters.
func (c *MemoryCache) ResetStats() {
	c.mu.Lock()
	c.stats = Stats{}
	c.mu.Unlock()
}

// purge drops expired entries. c.mu must be held.
func (c *MemoryCache) purge(now time.Time) {
	for k, e := range c.entries {
		if e.expired(now) {
			c.remove(k)
		}
	}
}

// evictSoonest drops the entry closest to expiry. c.mu must be held.
func (c *MemoryCache) evictSoonest() {
	var (
		victim string
		first  time.Time
		found  bool
	)
	for k, e := range c.entries {
		if !found || e.expires.Before(first) {
			victim, first, found = k, e.expires, true
		}
	}
	if found {
		c.remove(victim)
	}
}

func (c *MemoryCache) sweepEvery(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			c.mu.Lock()
			c.purge(now)
			c.mu.Unlock()
		case <-c.done:
			return
		}
	}
}

var (
	_ Cache         = (*MemoryCache)(nil)
	_ StatsProvider = (*MemoryCache)(nil)
)
