// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// scanBatch is the SCAN COUNT hint and the DEL batch size.
const scanBatch = 200

// RedisCache stores snapshots in Redis under a key prefix, so several API
// instances share one resolved copy of the content.
type RedisCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	shut   atomic.Bool

	hits, misses, sets atomic.Int64
}

// RedisCacheOptions configures the Redis cache.
type RedisCacheOptions struct {
	URL            string // redis://host:6379/0
	Prefix         string
	DefaultTTL     time.Duration
	PoolSize       int
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// DefaultRedisCacheOptions returns the defaults used by NewRedisCacheFromURL.
func DefaultRedisCacheOptions() RedisCacheOptions {
	return RedisCacheOptions{
		Prefix:         "creative:",
		DefaultTTL:     time.Hour,
		PoolSize:       10,
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    3 * time.Second,
		WriteTimeout:   3 * time.Second,
	}
}

// NewRedisCache connects and verifies the connection with PING.
func NewRedisCache(opts RedisCacheOptions) (*RedisCache, error) {
	if opts.URL == "" {
		return nil, errors.New("redis URL is required")
	}
	ro, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	setIfPositive(&ro.PoolSize, opts.PoolSize)
	setIfPositive(&ro.DialTimeout, opts.ConnectTimeout)
	setIfPositive(&ro.ReadTimeout, opts.ReadTimeout)
	setIfPositive(&ro.WriteTimeout, opts.WriteTimeout)

	timeout := 5 * time.Second
	setIfPositive(&timeout, opts.ConnectTimeout)

	rdb := redis.NewClient(ro)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return NewRedisCacheWithClient(rdb, opts.Prefix, opts.DefaultTTL), nil
}

func setIfPositive[T int | time.Duration](dst *T, v T) {
	if v > 0 {
		*dst = v
	}
}

// NewRedisCacheFromURL creates a Redis cache from a URL with default options.
// Empty prefix and zero ttl keep the defaults.
func NewRedisCacheFromURL(url, prefix string, defaultTTL time.Duration) (*RedisCache, error) {
	opts := DefaultRedisCacheOptions()
	opts.URL = url
	if prefix != "" {
		opts.Prefix = prefix
	}
	setIfPositive(&opts.DefaultTTL, defaultTTL)
	return NewRedisCache(opts)
}

// NewRedisCacheWithClient wraps an existing client. The cache closes the
// client on Close.
func NewRedisCacheWithClient(client *redis.Client, prefix string, defaultTTL time.Duration) *RedisCache {
	return &RedisCache{rdb: client, prefix: prefix, ttl: defaultTTL}
}

func (c *RedisCache) key(k string) string {
	return c.prefix + k
}

func (c *RedisCache) open() error {
	if c.shut.Load() {
		return ErrCacheClosed
	}
	return nil
}

// Get returns ErrCacheMiss for absent or expired keys.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := c.open(); err != nil {
		return nil, err
	}
	val, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		c.misses.Add(1)
		return nil, ErrCacheMiss
	case err != nil:
		return nil, err
	}
	c.hits.Add(1)
	return val, nil
}

// Set stores value with ttl, or the default ttl when zero.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.open(); err != nil {
		return err
	}
	if ttl == 0 {
		ttl = c.ttl
	}
	if err := c.rdb.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return err
	}
	c.sets.Add(1)
	return nil
}

// Delete removes key.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.open(); err != nil {
		return err
	}
	return c.rdb.Del(ctx, c.key(key)).Err()
}

// DeleteByPrefix removes every key under prefix.
func (c *RedisCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	if err := c.open(); err != nil {
		return err
	}
	return c.deleteMatching(ctx, c.key(prefix)+"*")
}

// Clear removes every key under the cache prefix and nothing else.
func (c *RedisCache) Clear(ctx context.Context) error {
	if err := c.open(); err != nil {
		return err
	}
	return c.deleteMatching(ctx, c.prefix+"*")
}

// deleteMatching walks the keyspace with SCAN and deletes matches in batches.
func (c *RedisCache) deleteMatching(ctx context.Context, pattern string) error {
	batch := make([]string, 0, scanBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := c.rdb.Del(ctx, batch...).Err()
		batch = batch[:0]
		return err
	}

	iter := c.rdb.Scan(ctx, 0, pattern, scanBatch).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return flush()
}

// Has reports whether key exists.
func (c *RedisCache) Has(ctx context.Context, key string) (bool, error) {
	if err := c.open(); err != nil {
		return false, err
	}
	n, err := c.rdb.Exists(ctx, c.key(key)).Result()
	return n > 0, err
}

// Close closes the client once.
func (c *RedisCache) Close() error {
	if !c.shut.CompareAndSwap(false, true) {
		return nil
	}
	return c.rdb.Close()
}

// Ping checks that Redis is reachable.
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.open(); err != nil {
		return err
	}
	return c.rdb.Ping(ctx).Err()
}

// Stats returns this instance's counters. Items counts every key under the
// prefix, including those written by other instances.
func (c *RedisCache) Stats() Stats {
	s := Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Sets: c.sets.Load()}
	s.HitRate = hitRate(s.Hits, s.Misses)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	iter := c.rdb.Scan(ctx, 0, c.prefix+"*", 1000).Iterator()
	for iter.Next(ctx) {
		s.Items++
	}
	return s
}

// ResetStats zeroes this instance's counters.
func (c *RedisCache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.sets.Store(0)
}

var (
	_ Cache         = (*RedisCache)(nil)
	_ StatsProvider = (*RedisCache)(nil)
)
