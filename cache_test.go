package cashfolio

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCache_TTL(t *testing.T) {
	cache := NewMemoryCache()
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	if err := cache.Set(ctx, "k", "v", time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, ok, _ := cache.Get(ctx, "k"); !ok || v != "v" {
		t.Fatalf("Get = %q, %v before expiry", v, ok)
	}

	now = now.Add(2 * time.Hour)
	if _, ok, _ := cache.Get(ctx, "k"); ok {
		t.Errorf("expired entry served")
	}
}

func TestMemoryCache_NoTTL(t *testing.T) {
	cache := NewMemoryCache()
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	if err := cache.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	now = now.Add(1000 * time.Hour)
	if v, ok, _ := cache.Get(ctx, "k"); !ok || v != "v" {
		t.Errorf("unexpiring entry evicted: %q, %v", v, ok)
	}
}

func TestMemoryCache_Series(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	for _, d := range []string{"2025-01-02", "2025-01-05", "2025-01-09"} {
		if err := cache.SeriesSet(ctx, "balance:a", day(d), d); err != nil {
			t.Fatalf("SeriesSet: %v", err)
		}
	}
	// A second series under another key is untouched by the delete below.
	if err := cache.SeriesSet(ctx, "balance:b", day("2025-01-05"), "x"); err != nil {
		t.Fatalf("SeriesSet: %v", err)
	}

	if err := cache.SeriesDeleteFrom(ctx, "balance:a", day("2025-01-05")); err != nil {
		t.Fatalf("SeriesDeleteFrom: %v", err)
	}
	if _, ok, _ := cache.SeriesGet(ctx, "balance:a", day("2025-01-02")); !ok {
		t.Errorf("entry before the cut was removed")
	}
	for _, d := range []string{"2025-01-05", "2025-01-09"} {
		if _, ok, _ := cache.SeriesGet(ctx, "balance:a", day(d)); ok {
			t.Errorf("entry at %s survived the suffix delete", d)
		}
	}
	if _, ok, _ := cache.SeriesGet(ctx, "balance:b", day("2025-01-05")); !ok {
		t.Errorf("suffix delete leaked into another key")
	}
}
