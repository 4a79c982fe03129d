package cashfolio

import (
	"context"
	"sync"
	"time"

	"github.com/felixmokross/cashfolio2-sub000/date"
)

// Cache is the single external key-value collaborator for rate tables,
// security prices and balance time-series. It is shared across concurrent
// requests; implementations must be safe for concurrent use. Writes for the
// same key are last-write-wins, which is acceptable because every cached
// computation is deterministic.
type Cache interface {
	// Get returns the value stored under key, or ok=false on a miss or an
	// expired entry.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores a value under key. A non-zero ttl makes the entry expire.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// SeriesGet returns the value stored at a date of a time-series key.
	SeriesGet(ctx context.Context, key string, on date.Date) (value string, ok bool, err error)

	// SeriesSet stores a value at a date of a time-series key.
	SeriesSet(ctx context.Context, key string, on date.Date, value string) error

	// SeriesDeleteFrom removes every entry of a time-series key at or after
	// 'from'. It is the suffix-range delete used for balance invalidation.
	SeriesDeleteFrom(ctx context.Context, key string, from date.Date) error
}

// MemoryCache is an in-process Cache. It serves as the default cache for the
// CLI and as a deterministic fake in tests.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memEntry
	series  map[string]*date.History[string]
	now     func() time.Time
}

type memEntry struct {
	value   string
	expires time.Time // zero means no expiry
}

// NewMemoryCache returns an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memEntry),
		series:  make(map[string]*date.History[string]),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return "", false, nil
	}
	if !e.expires.IsZero() && c.now().After(e.expires) {
		delete(c.entries, key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := memEntry{value: value}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.entries[key] = e
	return nil
}

func (c *MemoryCache) SeriesGet(_ context.Context, key string, on date.Date) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.series[key]
	if !ok {
		return "", false, nil
	}
	v, ok := h.Get(on)
	return v, ok, nil
}

func (c *MemoryCache) SeriesSet(_ context.Context, key string, on date.Date, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.series[key]
	if !ok {
		h = &date.History[string]{}
		c.series[key] = h
	}
	h.Set(on, value)
	return nil
}

func (c *MemoryCache) SeriesDeleteFrom(_ context.Context, key string, from date.Date) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if h, ok := c.series[key]; ok {
		h.DeleteFrom(from)
	}
	return nil
}

var _ Cache = (*MemoryCache)(nil)
