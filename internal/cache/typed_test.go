// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type snapshot struct {
	Kind  string   `json:"kind"`
	IDs   []int64  `json:"ids"`
	Names []string `json:"names"`
}

func TestTypedCache_SetGet(t *testing.T) {
	tc := NewTypedCache[snapshot](newTestMemoryCache(time.Hour, 0), time.Hour)
	ctx := context.Background()

	in := &snapshot{Kind: "blog", IDs: []int64{3, 2, 1}, Names: []string{"Tecnología"}}
	if err := tc.Set(ctx, "content:blog", in); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok := tc.Get(ctx, "content:blog")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Kind != "blog" || len(got.IDs) != 3 || got.Names[0] != "Tecnología" {
		t.Errorf("Get = %+v", got)
	}
	if !tc.Has(ctx, "content:blog") {
		t.Error("Has = false")
	}

	_ = tc.Delete(ctx, "content:blog")
	if _, ok := tc.Get(ctx, "content:blog"); ok {
		t.Error("expected miss after delete")
	}
}

func TestTypedCache_UndecodableIsMiss(t *testing.T) {
	backend := newTestMemoryCache(time.Hour, 0)
	tc := NewTypedCache[snapshot](backend, time.Hour)
	ctx := context.Background()

	_ = backend.Set(ctx, "content:blog", []byte("not json"), 0)
	if _, ok := tc.Get(ctx, "content:blog"); ok {
		t.Error("expected miss for undecodable entry")
	}
}

func TestTypedCache_SetWithTTL(t *testing.T) {
	tc := NewTypedCache[snapshot](newTestMemoryCache(time.Hour, 0), time.Hour)
	ctx := context.Background()

	_ = tc.SetWithTTL(ctx, "nav:en", &snapshot{Kind: "nav"}, 20*time.Millisecond)
	time.Sleep(40 * time.Millisecond)

	if _, ok := tc.Get(ctx, "nav:en"); ok {
		t.Error("expected entry to expire")
	}
}

func TestTypedCache_GetOrSet(t *testing.T) {
	tc := NewTypedCache[snapshot](newTestMemoryCache(time.Hour, 0), time.Hour)
	ctx := context.Background()

	calls := 0
	load := func() (*snapshot, error) {
		calls++
		return &snapshot{Kind: "faq"}, nil
	}

	for range 3 {
		v, err := tc.GetOrSet(ctx, "content:faq", load)
		if err != nil {
			t.Fatalf("GetOrSet: %v", err)
		}
		if v.Kind != "faq" {
			t.Errorf("Kind = %s", v.Kind)
		}
	}
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}
}

func TestTypedCache_GetOrSetErrorNotCached(t *testing.T) {
	tc := NewTypedCache[snapshot](newTestMemoryCache(time.Hour, 0), time.Hour)
	ctx := context.Background()
	boom := errors.New("cycle")

	if _, err := tc.GetOrSet(ctx, "nav:en", func() (*snapshot, error) {
		return nil, boom
	}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if tc.Has(ctx, "nav:en") {
		t.Error("failed load must not be cached")
	}

	v, err := tc.GetOrSet(ctx, "nav:en", func() (*snapshot, error) {
		return &snapshot{Kind: "nav"}, nil
	})
	if err != nil || v.Kind != "nav" {
		t.Errorf("retry = %+v, %v", v, err)
	}
}

func TestTypedCache_GetOrSetSharesConcurrentLoads(t *testing.T) {
	tc := NewTypedCache[snapshot](newTestMemoryCache(time.Hour, 0), time.Hour)
	ctx := context.Background()

	var calls atomic.Int32
	release := make(chan struct{})
	load := func() (*snapshot, error) {
		calls.Add(1)
		<-release
		return &snapshot{Kind: "portfolio"}, nil
	}

	var (
		wg      sync.WaitGroup
		started sync.WaitGroup
	)
	for range 8 {
		wg.Add(1)
		started.Add(1)
		go func() {
			defer wg.Done()
			started.Done()
			v, err := tc.GetOrSet(ctx, "content:portfolio", load)
			if err != nil || v.Kind != "portfolio" {
				t.Errorf("GetOrSet = %+v, %v", v, err)
			}
		}()
	}
	started.Wait()
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	// late arrivals may hit the cache; at most a handful of loads happen
	if n := calls.Load(); n < 1 || n > 8 {
		t.Errorf("loader called %d times", n)
	}
}
