package resilience

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig configures the local token bucket.
type RateLimiterConfig struct {
	// Rate is the sustained number of upstream calls per second. Default 100.
	Rate float64

	// Burst is the bucket size. Default 10.
	Burst int

	// WaitOnLimit queues a call for a token instead of refusing it.
	WaitOnLimit bool

	// MaxWait bounds the queueing delay when WaitOnLimit is set. Default 1s.
	MaxWait time.Duration
}

// RateLimiter is a token bucket shared by every outbound GitHub call.
type RateLimiter struct {
	config  RateLimiterConfig
	limiter *rate.Limiter
}

// NewRateLimiter creates a rate limiter, filling in defaults for zero fields.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Rate <= 0 {
		config.Rate = 100
	}
	if config.Burst <= 0 {
		config.Burst = 10
	}
	if config.MaxWait <= 0 {
		config.MaxWait = time.Second
	}
	return &RateLimiter{
		config:  config,
		limiter: rate.NewLimiter(rate.Limit(config.Rate), config.Burst),
	}
}

// Allow takes a token if one is available now.
func (rl *RateLimiter) Allow() bool {
	return rl.limiter.Allow()
}

// AllowN takes n tokens if they are all available now.
func (rl *RateLimiter) AllowN(n int) bool {
	return rl.limiter.AllowN(time.Now(), n)
}

// Wait reserves a token and sleeps until it is due. A reservation further
// out than MaxWait is given back and ErrRateLimitExceeded returned without
// sleeping. If ctx ends first the reservation is given back and ctx's
// cause returned, marked with Canceled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if ctx.Err() != nil {
		return Canceled(context.Cause(ctx))
	}

	r := rl.limiter.Reserve()
	delay := r.Delay()
	if !r.OK() || delay > rl.config.MaxWait {
		r.Cancel()
		return ErrRateLimitExceeded
	}
	if delay == 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return Canceled(context.Cause(ctx))
	}
}

// Execute runs op once a token is granted.
func (rl *RateLimiter) Execute(ctx context.Context, op func(context.Context) error) error {
	if rl.config.WaitOnLimit {
		if err := rl.Wait(ctx); err != nil {
			return err
		}
	} else if !rl.Allow() {
		return ErrRateLimitExceeded
	}
	return op(ctx)
}

// Tokens returns the tokens currently in the bucket.
func (rl *RateLimiter) Tokens() float64 {
	return rl.limiter.Tokens()
}

// Config returns the effective configuration.
func (rl *RateLimiter) Config() RateLimiterConfig {
	return rl.config
}
