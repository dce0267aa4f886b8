package resilience

import (
	"context"
	"time"
)

// Executor composes the rate limiter, bulkhead and timeout in front of an
// upstream call. There is no retry stage; a failed call is reported as is.
type Executor struct {
	rateLimiter *RateLimiter
	bulkhead    *Bulkhead
	timeout     *Timeout
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates a new resilience executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithRateLimiter adds rate limiting to the executor.
func WithRateLimiter(rl *RateLimiter) ExecutorOption {
	return func(e *Executor) {
		e.rateLimiter = rl
	}
}

// WithBulkhead adds bulkhead isolation to the executor.
func WithBulkhead(b *Bulkhead) ExecutorOption {
	return func(e *Executor) {
		e.bulkhead = b
	}
}

// WithTimeout bounds each call to limit.
func WithTimeout(limit time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.timeout = NewTimeout(limit)
	}
}

// Execute runs the operation through all configured stages.
//
// The execution order is:
// 1. Rate Limiter (if configured) - limits request rate
// 2. Bulkhead (if configured) - limits concurrency
// 3. Timeout (if configured) - limits execution time
//
// A nil Executor runs op directly.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	if e == nil {
		return op(ctx)
	}

	execute := op

	if e.timeout != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.timeout.Execute(ctx, inner)
		}
	}

	if e.bulkhead != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.bulkhead.Execute(ctx, inner)
		}
	}

	if e.rateLimiter != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.rateLimiter.Execute(ctx, inner)
		}
	}

	return execute(ctx)
}

// Do runs op through e and returns its value.
func Do[T any](ctx context.Context, e *Executor, op func(context.Context) (T, error)) (T, error) {
	var out T
	err := e.Execute(ctx, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Stats reports the current limiter and bulkhead state.
func (e *Executor) Stats() ExecutorStats {
	var s ExecutorStats
	if e == nil {
		return s
	}
	if e.rateLimiter != nil {
		tokens := e.rateLimiter.Tokens()
		s.Tokens = &tokens
	}
	if e.bulkhead != nil {
		m := e.bulkhead.Metrics()
		s.Bulkhead = &m
	}
	return s
}

// ExecutorStats is a point-in-time view of an Executor.
type ExecutorStats struct {
	Tokens   *float64         `json:"rate_limit_tokens,omitempty"`
	Bulkhead *BulkheadMetrics `json:"bulkhead,omitempty"`
}
