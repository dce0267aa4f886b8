package health_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/jonwraymond/ghtools/cache"
	"github.com/jonwraymond/ghtools/ghclient"
	"github.com/jonwraymond/ghtools/health"
)

type quota struct{ remaining int }

func (q quota) RateLimit(context.Context) (*ghclient.RateLimits, error) {
	return &ghclient.RateLimits{Core: ghclient.Rate{Limit: 5000, Remaining: q.remaining}}, nil
}

func ExampleNewGitHubChecker() {
	checker := health.NewGitHubChecker(quota{remaining: 120}, health.GitHubCheckerConfig{})

	result := checker.Check(context.Background())
	fmt.Println(result.Status)
	fmt.Println(result.Message)
	// Output:
	// degraded
	// rate limit low: 120 of 5000 remaining
}

func ExampleNewCacheChecker() {
	mc := cache.NewMemoryCache(cache.DefaultPolicy())
	mc.Set(context.Background(), cache.Key("user", "me"), []byte(`{"login":"octocat"}`), time.Minute)

	result := health.NewCacheChecker(mc, health.CacheCheckerConfig{}).Check(context.Background())
	fmt.Println(result.Status, result.Message)
	// Output:
	// healthy 1 live entries
}

func ExampleAggregator_Run() {
	agg := health.NewAggregator(health.AggregatorConfig{},
		health.NewCacheChecker(cache.NewMemoryCache(cache.DefaultPolicy()), health.CacheCheckerConfig{}),
		health.NewGitHubChecker(quota{remaining: 4000}, health.GitHubCheckerConfig{}),
	)

	report := agg.Run(context.Background())
	fmt.Println(report.Status, report.Ready())
	fmt.Println(report.Checks["github"].Message)
	// Output:
	// healthy true
	// 4000 of 5000 requests remaining
}

func ExampleRegisterHandlers() {
	agg := health.NewAggregator(health.AggregatorConfig{},
		health.NewGitHubChecker(quota{remaining: 0}, health.GitHubCheckerConfig{}))

	mux := http.NewServeMux()
	health.RegisterHandlers(mux, agg)

	for _, path := range []string{"/healthz", "/readyz", "/health/github", "/health/db"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		fmt.Println(path, rec.Code)
	}
	// Output:
	// /healthz 200
	// /readyz 200
	// /health/github 200
	// /health/db 404
}
