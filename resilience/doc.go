// Package resilience guards outbound GitHub calls.
//
// Three stages are available and can be composed with an Executor:
//
//   - RateLimiter: a token bucket (golang.org/x/time/rate) shared by all
//     tool calls, so a burst of tool invocations cannot drain the GitHub
//     quota.
//
//   - Bulkhead: caps how many upstream calls are in flight
//     (golang.org/x/sync/semaphore).
//
//   - Timeout: bounds a single call.
//
// Local refusals are returned as *Error values that carry an HTTP status
// (429 for rate limiting and bulkhead saturation, 504 for timeouts), so the
// failure classifier reports them exactly like the equivalent GitHub
// responses.
//
//	executor := resilience.NewExecutor(
//	    resilience.WithRateLimiter(resilience.NewRateLimiter(resilience.RateLimiterConfig{
//	        Rate:  10,
//	        Burst: 20,
//	    })),
//	    resilience.WithTimeout(10*time.Second),
//	)
//
//	repo, err := resilience.Do(ctx, executor, func(ctx context.Context) (*ghclient.Repository, error) {
//	    return client.GetRepository(ctx, owner, name)
//	})
package resilience
