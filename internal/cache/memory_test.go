// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func newTestMemoryCache(ttl time.Duration, maxSize int) *MemoryCache {
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL: ttl,
		MaxSize:    maxSize,
	})
}

func TestMemoryCache_SetGetDelete(t *testing.T) {
	c := newTestMemoryCache(time.Hour, 0)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	if err := c.Set(ctx, "content:blog", []byte(`[{"id":1}]`), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	val, err := c.Get(ctx, "content:blog")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(val) != `[{"id":1}]` {
		t.Errorf("Get = %s", val)
	}

	has, err := c.Has(ctx, "content:blog")
	if err != nil || !has {
		t.Fatalf("Has = %v, %v; want true", has, err)
	}

	if err := c.Delete(ctx, "content:blog"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, "content:blog"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after delete = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	c := newTestMemoryCache(30*time.Millisecond, 0)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "nav:en", []byte("x"), 0)
	_ = c.Set(ctx, "nav:ru", []byte("y"), time.Hour)

	time.Sleep(60 * time.Millisecond)

	if _, err := c.Get(ctx, "nav:en"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expired entry: got %v, want ErrCacheMiss", err)
	}
	if has, _ := c.Has(ctx, "nav:en"); has {
		t.Error("expired entry reported by Has")
	}
	if _, err := c.Get(ctx, "nav:ru"); err != nil {
		t.Errorf("custom ttl entry: %v", err)
	}
}

func TestMemoryCache_DeleteByPrefix(t *testing.T) {
	c := newTestMemoryCache(time.Hour, 0)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	for _, k := range []string{"nav:en", "nav:az", "content:blog", "content:faq"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}

	if err := c.DeleteByPrefix(ctx, "nav:"); err != nil {
		t.Fatalf("DeleteByPrefix: %v", err)
	}

	for _, k := range []string{"nav:en", "nav:az"} {
		if has, _ := c.Has(ctx, k); has {
			t.Errorf("%s should be gone", k)
		}
	}
	for _, k := range []string{"content:blog", "content:faq"} {
		if has, _ := c.Has(ctx, k); !has {
			t.Errorf("%s should remain", k)
		}
	}
	if got := c.Stats().Size; got != int64(len("content:blog")+len("content:faq")) {
		t.Errorf("Size = %d", got)
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	c := newTestMemoryCache(time.Hour, 0)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	stats := c.Stats()
	if stats.Items != 0 || stats.Size != 0 {
		t.Errorf("after Clear: items=%d size=%d", stats.Items, stats.Size)
	}
}

func TestMemoryCache_MaxSizeEvictsSoonestExpiring(t *testing.T) {
	c := newTestMemoryCache(time.Hour, 2)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "short", []byte("1"), time.Minute)
	_ = c.Set(ctx, "long", []byte("2"), 2*time.Hour)
	_ = c.Set(ctx, "new", []byte("3"), 0)

	if has, _ := c.Has(ctx, "short"); has {
		t.Error("entry closest to expiry should have been evicted")
	}
	for _, k := range []string{"long", "new"} {
		if has, _ := c.Has(ctx, k); !has {
			t.Errorf("%s should remain", k)
		}
	}

	// overwriting an existing key never evicts
	_ = c.Set(ctx, "long", []byte("22"), 0)
	if got := c.Stats().Items; got != 2 {
		t.Errorf("Items = %d, want 2", got)
	}
}

func TestMemoryCache_Stats(t *testing.T) {
	c := newTestMemoryCache(time.Hour, 0)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("v"), 0)
	_, _ = c.Get(ctx, "k")
	_, _ = c.Get(ctx, "k")
	_, _ = c.Get(ctx, "missing")

	stats := c.Stats()
	if stats.Hits != 2 || stats.Misses != 1 || stats.Sets != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.HitRate < 66 || stats.HitRate > 67 {
		t.Errorf("HitRate = %f", stats.HitRate)
	}

	c.ResetStats()
	if s := c.Stats(); s.Hits != 0 || s.Misses != 0 || s.Items != 1 {
		t.Errorf("after reset = %+v", s)
	}
}

func TestMemoryCache_ValueCopy(t *testing.T) {
	c := newTestMemoryCache(time.Hour, 0)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	in := []byte("original")
	_ = c.Set(ctx, "k", in, 0)
	in[0] = 'X'

	out, _ := c.Get(ctx, "k")
	if string(out) != "original" {
		t.Errorf("stored value changed through caller slice: %s", out)
	}
	out[0] = 'Y'

	again, _ := c.Get(ctx, "k")
	if string(again) != "original" {
		t.Errorf("stored value changed through returned slice: %s", again)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	c := newTestMemoryCache(time.Hour, 50)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := range 100 {
				key := fmt.Sprintf("k%d", (n*100+j)%80)
				_ = c.Set(ctx, key, []byte(key), 0)
				_, _ = c.Get(ctx, key)
				if j%10 == 0 {
					_ = c.DeleteByPrefix(ctx, "k1")
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestMemoryCache_Close(t *testing.T) {
	c := NewSimpleMemoryCache(time.Hour)
	ctx := context.Background()

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get after close = %v", err)
	}
	if err := c.Set(ctx, "k", nil, 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set after close = %v", err)
	}
	if err := c.DeleteByPrefix(ctx, "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("DeleteByPrefix after close = %v", err)
	}
}
