package health

import (
	"context"

	"github.com/jonwraymond/ghtools/failure"
	"github.com/jonwraymond/ghtools/ghclient"
)

// RateLimiter reports the current GitHub quotas.
type RateLimiter interface {
	RateLimit(ctx context.Context) (*ghclient.RateLimits, error)
}

// GitHubCheckerConfig configures the GitHub health checker.
type GitHubCheckerConfig struct {
	// MinRemaining is the share of the core quota below which the upstream
	// is reported degraded. Default: 0.1
	MinRemaining float64
}

// GitHubChecker calls the rate limit endpoint, which verifies the token
// without consuming quota.
type GitHubChecker struct {
	client RateLimiter
	config GitHubCheckerConfig
}

// NewGitHubChecker creates a checker for client.
func NewGitHubChecker(client RateLimiter, config GitHubCheckerConfig) *GitHubChecker {
	if config.MinRemaining <= 0 || config.MinRemaining >= 1 {
		config.MinRemaining = 0.1
	}
	return &GitHubChecker{client: client, config: config}
}

// Name returns the name of this checker.
func (g *GitHubChecker) Name() string {
	return "github"
}

// Check queries the quota and classifies failures the same way tool calls do.
func (g *GitHubChecker) Check(ctx context.Context) Result {
	limits, err := g.client.RateLimit(ctx)
	if err != nil {
		d := failure.Describe(err)
		return Unhealthy(err, d.Message).With("code", d.Code)
	}

	core := limits.Core
	details := map[string]any{
		"core_limit":       core.Limit,
		"core_remaining":   core.Remaining,
		"core_reset":       core.Reset,
		"search_limit":     limits.Search.Limit,
		"search_remaining": limits.Search.Remaining,
	}

	r := Healthy("%d of %d requests remaining", core.Remaining, core.Limit)
	if core.Limit > 0 && float64(core.Remaining) < float64(core.Limit)*g.config.MinRemaining {
		r = Degraded("rate limit low: %d of %d remaining", core.Remaining, core.Limit)
	}
	r.Details = details
	return r
}
