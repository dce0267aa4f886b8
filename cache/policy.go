package cache

import "time"

// Policy configures caching behavior.
type Policy struct {
	// DefaultTTL is used when Set is called without a positive TTL
	// (5 minutes in the default policy). If zero, such calls store nothing.
	DefaultTTL time.Duration

	// MaxTTL caps every TTL. Zero means no cap.
	MaxTTL time.Duration

	// AllowUnsafe permits caching tools with unsafe tags (write, danger, etc.)
	AllowUnsafe bool

	// Overrides replaces entries of the resource TTL table.
	Overrides map[Resource]time.Duration
}

// DefaultPolicy returns the default caching policy.
// DefaultTTL: 5 minutes, no MaxTTL, AllowUnsafe: false. Explicit TTLs are
// stored as given.
func DefaultPolicy() Policy {
	return Policy{
		DefaultTTL: 5 * time.Minute,
	}
}

// NoCachePolicy returns a policy that disables caching entirely.
func NoCachePolicy() Policy {
	return Policy{}
}

// ShouldCache returns true if caching is enabled by this policy.
func (p Policy) ShouldCache() bool {
	return p.DefaultTTL > 0
}

// EffectiveTTL resolves a requested TTL: non-positive requests fall back to
// DefaultTTL, and the result is clamped to MaxTTL.
func (p Policy) EffectiveTTL(requested time.Duration) time.Duration {
	ttl := requested
	if ttl <= 0 {
		ttl = p.DefaultTTL
	}
	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		ttl = p.MaxTTL
	}
	return ttl
}

// TTLFor returns the freshness window for a resource, honoring Overrides
// before the built-in table and clamping the result.
func (p Policy) TTLFor(r Resource) time.Duration {
	if ttl, ok := p.Overrides[r]; ok && ttl > 0 {
		return p.EffectiveTTL(ttl)
	}
	return p.EffectiveTTL(r.TTL())
}
