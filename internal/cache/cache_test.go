// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestCache(ttl time.Duration) (*Cache[string], *manualClock) {
	clock := &manualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	return New[string]("test", ttl, WithClock(clock.Now)), clock
}

func TestCacheBasicOperations(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	c.Set("key1", "value1")
	value, exists := c.Get("key1")
	if !exists {
		t.Error("Expected key1 to exist")
	}
	if value != "value1" {
		t.Errorf("Expected value1, got %v", value)
	}

	if _, exists = c.Get("key2"); exists {
		t.Error("Expected key2 to not exist")
	}
}

func TestCacheExpiration(t *testing.T) {
	c, clock := newTestCache(time.Minute)
	c.Set("key1", "value1")

	clock.Advance(59 * time.Second)
	if _, exists := c.Get("key1"); !exists {
		t.Error("Expected key1 to exist before the TTL")
	}

	clock.Advance(2 * time.Second)
	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be expired")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not removed, len=%d", c.Len())
	}
}

func TestCacheSetWithTTL(t *testing.T) {
	c, clock := newTestCache(time.Hour)
	c.SetWithTTL("short", "v", time.Second)
	c.Set("long", "v")

	clock.Advance(2 * time.Second)
	if _, ok := c.Get("short"); ok {
		t.Error("short TTL entry survived")
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("default TTL entry expired early")
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	for i := 1; i <= 3; i++ {
		c.Set(fmt.Sprintf("key%d", i), "v")
	}

	c.Delete("key1")
	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be deleted")
	}

	c.Clear()
	for _, key := range []string{"key2", "key3"} {
		if _, exists := c.Get(key); exists {
			t.Errorf("Expected %s to be cleared", key)
		}
	}
	if stats := c.GetStats(); stats.Evictions != 3 || stats.TotalKeys != 0 {
		t.Errorf("stats = %+v, want 3 evictions and 0 keys", stats)
	}
}

func TestCacheStats(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	c.Set("key1", "value1")
	c.Get("key1") // hit
	c.Get("key2") // miss
	c.Get("key1") // hit

	stats := c.GetStats()
	if stats.Hits != 2 {
		t.Errorf("Expected 2 hits, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Expected 1 miss, got %d", stats.Misses)
	}

	hitRate := c.HitRate()
	expectedHitRate := 66.66666666666667
	if hitRate < expectedHitRate-0.01 || hitRate > expectedHitRate+0.01 {
		t.Errorf("Expected hit rate around %.2f%%, got %.2f%%", expectedHitRate, hitRate)
	}
}

func TestCacheHitRateEmpty(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	if got := c.HitRate(); got != 0 {
		t.Errorf("HitRate on empty cache = %v", got)
	}
}

func TestCacheGetOrLoad(t *testing.T) {
	c, clock := newTestCache(time.Minute)
	calls := 0
	load := func() (string, error) {
		calls++
		return fmt.Sprintf("v%d", calls), nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrLoad("k", load)
		if err != nil || v != "v1" {
			t.Fatalf("GetOrLoad = %q, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("load called %d times, want 1", calls)
	}

	clock.Advance(2 * time.Minute)
	if v, _ := c.GetOrLoad("k", load); v != "v2" {
		t.Errorf("after expiry GetOrLoad = %q, want v2", v)
	}
}

func TestCacheGetOrLoadErrorNotCached(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	boom := errors.New("boom")

	if _, err := c.GetOrLoad("k", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("failed load was cached")
	}
}

func TestCacheCleanup(t *testing.T) {
	c, clock := newTestCache(time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	clock.Advance(30 * time.Second)
	c.Set("c", "3")
	clock.Advance(45 * time.Second)

	if removed := c.Cleanup(); removed != 2 {
		t.Errorf("Cleanup removed %d, want 2", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
	if got := c.GetStats().LastCleanup; !got.Equal(clock.Now()) {
		t.Errorf("LastCleanup = %v", got)
	}
}

func TestCacheRunStopsOnCancel(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, time.Millisecond) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key%d_%d", id, j)
				c.Set(key, "v")
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if stats := c.GetStats(); stats.Hits != 1000 {
		t.Errorf("Expected 1000 hits, got %d", stats.Hits)
	}
}
