// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMemoryCache_BasicOperations(t *testing.T) {
	c := NewMemoryCache(MemoryOptions{DefaultTTL: time.Hour})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	if err := c.Set(ctx, "corpus", []byte("v1"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := c.Get(ctx, "corpus")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(val) != "v1" {
		t.Errorf("Get = %q, want v1", val)
	}

	has, err := c.Has(ctx, "corpus")
	if err != nil || !has {
		t.Errorf("Has = %v, %v; want true, nil", has, err)
	}

	if err := c.Delete(ctx, "corpus"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := c.Get(ctx, "corpus"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after Delete = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	c := NewMemoryCache(MemoryOptions{})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	in := []byte("abc")
	_ = c.Set(ctx, "k", in, 0)
	in[0] = 'x'

	out, _ := c.Get(ctx, "k")
	if string(out) != "abc" {
		t.Errorf("stored value mutated through input slice: %q", out)
	}
	out[1] = 'y'
	again, _ := c.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored value mutated through returned slice: %q", again)
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	c := NewMemoryCache(MemoryOptions{})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "short", []byte("v"), 20*time.Millisecond)
	_ = c.Set(ctx, "forever", []byte("v"), 0)

	time.Sleep(40 * time.Millisecond)

	if _, err := c.Get(ctx, "short"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expired key: got %v, want ErrCacheMiss", err)
	}
	if has, _ := c.Has(ctx, "short"); has {
		t.Error("Has reported an expired key")
	}
	if _, err := c.Get(ctx, "forever"); err != nil {
		t.Errorf("key without TTL expired: %v", err)
	}
}

func TestMemoryCache_CleanupLoop(t *testing.T) {
	c := NewMemoryCache(MemoryOptions{CleanupInterval: 10 * time.Millisecond})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("value"), 5*time.Millisecond)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if c.Stats().Items == 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	stats := c.Stats()
	if stats.Items != 0 {
		t.Errorf("Items = %d after cleanup, want 0", stats.Items)
	}
	if stats.Size != 0 {
		t.Errorf("Size = %d after cleanup, want 0", stats.Size)
	}
}

func TestMemoryCache_ClearAndPrefix(t *testing.T) {
	c := NewMemoryCache(MemoryOptions{})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "corpus", []byte("a"), 0)
	_ = c.Set(ctx, "platforms:ga4", []byte("b"), 0)
	_ = c.Set(ctx, "platforms:gtm", []byte("c"), 0)

	if err := c.DeleteByPrefix(ctx, "platforms:"); err != nil {
		t.Fatalf("DeleteByPrefix failed: %v", err)
	}
	if got := c.Stats().Items; got != 1 {
		t.Errorf("Items after DeleteByPrefix = %d, want 1", got)
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if got := c.Stats(); got.Items != 0 || got.Size != 0 {
		t.Errorf("after Clear: Items=%d Size=%d, want 0/0", got.Items, got.Size)
	}
}

func TestMemoryCache_Stats(t *testing.T) {
	c := NewMemoryCache(MemoryOptions{})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("1234"), 0)
	_ = c.Set(ctx, "k", []byte("12"), 0)
	_, _ = c.Get(ctx, "k")
	_, _ = c.Get(ctx, "k")
	_, _ = c.Get(ctx, "missing")

	stats := c.Stats()
	if stats.Backend != BackendMemory {
		t.Errorf("Backend = %q", stats.Backend)
	}
	if stats.Hits != 2 || stats.Misses != 1 || stats.Sets != 2 {
		t.Errorf("Hits/Misses/Sets = %d/%d/%d, want 2/1/2", stats.Hits, stats.Misses, stats.Sets)
	}
	if stats.Size != 2 {
		t.Errorf("Size = %d, want 2", stats.Size)
	}
	if stats.HitRate < 66 || stats.HitRate > 67 {
		t.Errorf("HitRate = %f, want ~66.7", stats.HitRate)
	}

	c.ResetStats()
	if s := c.Stats(); s.Hits != 0 || s.Misses != 0 || s.Sets != 0 {
		t.Errorf("counters not reset: %+v", s)
	}
}

func TestMemoryCache_Closed(t *testing.T) {
	c := NewMemoryCache(MemoryOptions{CleanupInterval: time.Millisecond})
	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close returned %v", err)
	}

	ctx := context.Background()
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get on closed cache = %v", err)
	}
	if err := c.Set(ctx, "k", nil, 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set on closed cache = %v", err)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	c := NewMemoryCache(MemoryOptions{})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := range 50 {
				key := string(rune('a' + (n+j)%5))
				_ = c.Set(ctx, key, []byte{byte(j)}, 0)
				_, _ = c.Get(ctx, key)
				if j%7 == 0 {
					_ = c.Delete(ctx, key)
				}
			}
		}(i)
	}
	wg.Wait()

	if items := c.Stats().Items; items > 5 {
		t.Errorf("Items = %d, want at most 5", items)
	}
}

func TestJSONHelpers(t *testing.T) {
	c := NewMemoryCache(MemoryOptions{})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	type snapshot struct {
		Slugs []string `json:"slugs"`
	}

	if err := SetJSON(ctx, c, "snap", snapshot{Slugs: []string{"a", "b"}}, 0); err != nil {
		t.Fatalf("SetJSON failed: %v", err)
	}

	var got snapshot
	if err := GetJSON(ctx, c, "snap", &got); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if len(got.Slugs) != 2 || got.Slugs[1] != "b" {
		t.Errorf("GetJSON = %+v", got)
	}

	if err := GetJSON(ctx, c, "missing", &got); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("GetJSON missing = %v, want ErrCacheMiss", err)
	}

	_ = c.Set(ctx, "corrupt", []byte("{"), 0)
	if err := GetJSON(ctx, c, "corrupt", &got); err == nil || errors.Is(err, ErrCacheMiss) {
		t.Errorf("GetJSON corrupt = %v, want decode error", err)
	}
}
