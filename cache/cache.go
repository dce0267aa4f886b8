package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Sentinel errors for cache operations.
var (
	ErrNilCache   = errors.New("cache: cache is nil")
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// Cache is the interface for caching serialized tool responses.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: operations never fail; a miss is reported as (nil, false).
// - Expiry: Get and Has evict an expired entry they find. Stats never evicts.
type Cache interface {
	// Get retrieves a live value. Returns (nil, false) on miss or expiry.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a value. A non-positive ttl selects the cache default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)

	// Has reports whether a live entry exists for key.
	Has(ctx context.Context, key string) bool

	// Delete removes a value. Idempotent - no effect on miss.
	Delete(ctx context.Context, key string)

	// Clear removes every entry.
	Clear(ctx context.Context)

	// Cleanup evicts every expired entry and returns how many were removed.
	Cleanup(ctx context.Context) int

	// Stats counts entries without mutating the cache.
	Stats(ctx context.Context) Stats
}

// Stats is a point-in-time count of cache entries.
//
// Total includes entries that have expired but not yet been evicted, so
// Total == Active + Expired.
type Stats struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Expired int `json:"expired"`
}

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	// Reject keys with newlines or carriage returns
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
