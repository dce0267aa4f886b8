package health

import (
	"context"

	"github.com/jonwraymond/ghtools/cache"
)

// CacheStatser reports entry counts without evicting anything.
type CacheStatser interface {
	Stats(ctx context.Context) cache.Stats
}

// CacheCheckerConfig configures the cache health checker.
type CacheCheckerConfig struct {
	// ExpiredRatio is the share of expired entries above which the cache
	// is reported degraded. Default: 0.5
	ExpiredRatio float64

	// MinEntries is the entry count below which the ratio is ignored.
	// Default: 100
	MinEntries int
}

// CacheChecker reports degraded when expired entries pile up, which means
// nothing is sweeping the cache.
type CacheChecker struct {
	cache  CacheStatser
	config CacheCheckerConfig
}

// NewCacheChecker creates a checker for c.
func NewCacheChecker(c CacheStatser, config CacheCheckerConfig) *CacheChecker {
	if config.ExpiredRatio <= 0 || config.ExpiredRatio > 1 {
		config.ExpiredRatio = 0.5
	}
	if config.MinEntries <= 0 {
		config.MinEntries = 100
	}
	return &CacheChecker{cache: c, config: config}
}

// Name returns the name of this checker.
func (c *CacheChecker) Name() string {
	return "cache"
}

// Check inspects the cache counts.
func (c *CacheChecker) Check(ctx context.Context) Result {
	stats := c.cache.Stats(ctx)

	r := Healthy("%d live entries", stats.Active)
	if stats.Total >= c.config.MinEntries {
		ratio := float64(stats.Expired) / float64(stats.Total)
		if ratio > c.config.ExpiredRatio {
			r = Degraded("%d of %d entries expired", stats.Expired, stats.Total)
		}
	}
	r.Details = map[string]any{
		"total":   stats.Total,
		"active":  stats.Active,
		"expired": stats.Expired,
	}
	return r
}
