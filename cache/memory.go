package cache

import (
	"bytes"
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-memory cache with lazy, read-time expiry.
//
// A single mutex guards the entry map; Get and Has take it exclusively
// because a read may evict.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	policy  Policy
	now     func() time.Time
}

type cacheEntry struct {
	value    []byte
	storedAt time.Time
	ttl      time.Duration
}

// live reports whether the entry is still fresh at now.
// An entry whose age equals its TTL is still live.
func (e *cacheEntry) live(now time.Time) bool {
	return now.Sub(e.storedAt) <= e.ttl
}

// Option configures a MemoryCache.
type Option func(*MemoryCache)

// WithClock replaces the time source. Tests use it to move time forward
// without sleeping.
func WithClock(now func() time.Time) Option {
	return func(c *MemoryCache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewMemoryCache creates a new in-memory cache with the given policy.
func NewMemoryCache(policy Policy, opts ...Option) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]*cacheEntry),
		policy:  policy,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Policy returns the policy the cache was built with.
func (c *MemoryCache) Policy() Policy {
	return c.policy
}

// Get retrieves a copy of a cached value. Returns (nil, false) on miss or
// expiry.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.liveLocked(key)
	if !ok {
		return nil, false
	}
	return bytes.Clone(entry.value), true
}

// Has reports whether key holds a live entry, evicting it if expired.
func (c *MemoryCache) Has(_ context.Context, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.liveLocked(key)
	return ok
}

// liveLocked returns the entry for key if it is live. An expired entry is
// deleted before returning. Callers must hold c.mu.
func (c *MemoryCache) liveLocked(key string) (*cacheEntry, bool) {
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !entry.live(c.now()) {
		delete(c.entries, key)
		return nil, false
	}
	return entry, true
}

// Set stores a value. A non-positive ttl uses the policy default; TTLs above
// the policy maximum are clamped. When the resulting TTL is not positive
// (caching disabled) nothing is stored. The cache keeps its own copy of value.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	ttl = c.policy.EffectiveTTL(ttl)
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	c.entries[key] = &cacheEntry{
		value:    bytes.Clone(value),
		storedAt: c.now(),
		ttl:      ttl,
	}
	c.mu.Unlock()
}

// Delete removes a value from the cache. Idempotent - no effect on miss.
func (c *MemoryCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear removes all entries.
func (c *MemoryCache) Clear(_ context.Context) {
	c.mu.Lock()
	clear(c.entries)
	c.mu.Unlock()
}

// Cleanup evicts every expired entry and returns the number removed.
func (c *MemoryCache) Cleanup(_ context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, entry := range c.entries {
		if !entry.live(now) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Stats counts live and expired entries. It never evicts, so entries that
// have expired but were not read since remain visible as Expired.
func (c *MemoryCache) Stats(_ context.Context) Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	stats := Stats{Total: len(c.entries)}
	for _, entry := range c.entries {
		if entry.live(now) {
			stats.Active++
		} else {
			stats.Expired++
		}
	}
	return stats
}

// Ensure MemoryCache implements Cache
var _ Cache = (*MemoryCache)(nil)
