package cache

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// ExecutorFunc is the function signature for tool execution.
type ExecutorFunc func(ctx context.Context, toolID string, input any) ([]byte, error)

// SkipRule determines whether to skip caching for a given tool.
// Returns true if caching should be skipped.
type SkipRule func(toolID string, tags []string) bool

// UnsafeTags are tags that indicate a tool has side effects and should not be cached.
var UnsafeTags = []string{"write", "danger", "unsafe", "mutation", "delete"}

// DefaultSkipRule skips caching for tools with unsafe tags.
// Tag matching is case-insensitive.
func DefaultSkipRule(_ string, tags []string) bool {
	for _, tag := range tags {
		tagLower := strings.ToLower(tag)
		for _, unsafe := range UnsafeTags {
			if tagLower == unsafe {
				return true
			}
		}
	}
	return false
}

// Request describes one cacheable tool invocation.
type Request struct {
	// ToolID names the tool, e.g. "list_branches".
	ToolID string

	// Input is the normalized tool input, passed to the executor and to the
	// Keyer when Key is empty.
	Input any

	// Key is the precomputed cache key. If empty, the Keyer derives one.
	Key string

	// TTL is how long a successful result stays fresh. Zero selects the
	// policy default.
	TTL time.Duration

	// Tags are the tool's tags, consulted by the SkipRule.
	Tags []string
}

// LookupFunc observes cache lookups made by the middleware.
type LookupFunc func(ctx context.Context, toolID string, hit bool)

// MiddlewareOption configures a CacheMiddleware.
type MiddlewareOption func(*CacheMiddleware)

// WithLookupObserver registers fn to be called after every cache lookup.
func WithLookupObserver(fn LookupFunc) MiddlewareOption {
	return func(m *CacheMiddleware) {
		m.onLookup = fn
	}
}

// CacheMiddleware wraps tool execution with caching.
//
// Concurrent misses for the same key share one executor call.
type CacheMiddleware struct {
	cache    Cache
	keyer    Keyer
	policy   Policy
	skipRule SkipRule
	onLookup LookupFunc
	flight   singleflight.Group
}

// NewCacheMiddleware creates a new cache middleware.
// If skipRule is nil, DefaultSkipRule is used. If keyer is nil, a DigestKeyer is used.
func NewCacheMiddleware(cache Cache, keyer Keyer, policy Policy, skipRule SkipRule, opts ...MiddlewareOption) *CacheMiddleware {
	if skipRule == nil {
		skipRule = DefaultSkipRule
	}
	if keyer == nil {
		keyer = NewDigestKeyer()
	}
	m := &CacheMiddleware{
		cache:    cache,
		keyer:    keyer,
		policy:   policy,
		skipRule: skipRule,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Execute runs the tool with caching.
// On cache hit, returns cached result without calling executor.
// On cache miss, calls executor and caches the result under req.TTL.
// Errors are NOT cached.
func (m *CacheMiddleware) Execute(ctx context.Context, req Request, executor ExecutorFunc) ([]byte, error) {
	if !m.policy.AllowUnsafe && m.skipRule(req.ToolID, req.Tags) {
		return executor(ctx, req.ToolID, req.Input)
	}
	if !m.policy.ShouldCache() {
		return executor(ctx, req.ToolID, req.Input)
	}

	key := req.Key
	if key == "" {
		k, err := m.keyer.Key(req.ToolID, req.Input)
		if err != nil {
			// Key generation failed - execute without caching
			return executor(ctx, req.ToolID, req.Input)
		}
		key = k
	}
	if ValidateKey(key) != nil {
		return executor(ctx, req.ToolID, req.Input)
	}

	if cached, ok := m.cache.Get(ctx, key); ok {
		m.observe(ctx, req.ToolID, true)
		return cached, nil
	}
	m.observe(ctx, req.ToolID, false)

	// The shared call outlives any one caller; each caller stops waiting
	// when its own context ends.
	shared := context.WithoutCancel(ctx)
	ch := m.flight.DoChan(key, func() (any, error) {
		result, err := executor(shared, req.ToolID, req.Input)
		if err != nil {
			return nil, err
		}
		m.cache.Set(shared, key, result, req.TTL)
		return result, nil
	})

	select {
	case <-ctx.Done():
		return nil, context.Cause(ctx)
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		result, _ := res.Val.([]byte)
		return result, nil
	}
}

// Invalidate removes the entry stored under key.
func (m *CacheMiddleware) Invalidate(ctx context.Context, key string) {
	m.cache.Delete(ctx, key)
}

func (m *CacheMiddleware) observe(ctx context.Context, toolID string, hit bool) {
	if m.onLookup != nil {
		m.onLookup(ctx, toolID, hit)
	}
}
