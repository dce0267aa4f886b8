// Package health reports whether the server can answer tool calls.
//
// Two checkers cover the moving parts of the process: CacheChecker flags a
// cache whose expired entries are piling up (the sweeper is not running),
// and GitHubChecker calls the rate limit endpoint, which both validates
// the token and reports how much quota is left.
//
//	agg := health.NewAggregator(health.AggregatorConfig{MaxAge: 10 * time.Second},
//		health.NewCacheChecker(memCache, health.CacheCheckerConfig{}),
//		health.NewGitHubChecker(client, health.GitHubCheckerConfig{}))
//
//	mux := http.NewServeMux()
//	health.RegisterHandlers(mux, agg)
//
// The endpoints are /healthz (liveness), /readyz (plain text readiness,
// 503 only when a check is unhealthy), /health (JSON report) and
// /health/{name} for a single check.
package health
