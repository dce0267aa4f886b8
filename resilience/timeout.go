package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultTimeout bounds an upstream call when no limit is configured.
const DefaultTimeout = 30 * time.Second

// Timeout bounds how long a single upstream call may take. A caller
// deadline sooner than the limit stays in effect.
type Timeout struct {
	limit time.Duration
}

// NewTimeout creates a timeout stage. A non-positive limit selects
// DefaultTimeout.
func NewTimeout(limit time.Duration) *Timeout {
	if limit <= 0 {
		limit = DefaultTimeout
	}
	return &Timeout{limit: limit}
}

// Limit returns the configured bound.
func (t *Timeout) Limit() time.Duration { return t.limit }

// Execute runs op under the limit. Exceeding it yields an error wrapping
// ErrTimeout; cancellation by the caller yields the caller's cause marked
// with Canceled. An op
// that ignores ctx keeps running in the background and its result is
// discarded.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeoutCause(ctx, t.limit, ErrTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(ctx)
	}()

	var err error
	select {
	case err = <-done:
		if err == nil || ctx.Err() == nil {
			return err
		}
	case <-ctx.Done():
	}
	if cause := context.Cause(ctx); !errors.Is(cause, ErrTimeout) {
		return Canceled(cause)
	}
	return fmt.Errorf("%w after %s", ErrTimeout, t.limit)
}
