package resilience

import (
	"errors"
	"net/http"
)

// Error is a locally enforced limit failure. It reports the HTTP status a
// remote service would have answered with, so callers can classify local
// and upstream refusals the same way.
type Error struct {
	msg    string
	status int
}

func (e *Error) Error() string { return e.msg }

// HTTPStatus returns the status code equivalent of the failure.
func (e *Error) HTTPStatus() int { return e.status }

// Sentinel errors for resilience operations.
var (
	// ErrRateLimitExceeded is returned when the rate limit is exceeded.
	ErrRateLimitExceeded error = &Error{"resilience: rate limit exceeded", http.StatusTooManyRequests}

	// ErrBulkheadFull is returned when the bulkhead is at capacity.
	ErrBulkheadFull error = &Error{"resilience: too many concurrent requests", http.StatusTooManyRequests}

	// ErrTimeout is returned when an operation times out.
	ErrTimeout error = &Error{"resilience: operation timed out", http.StatusGatewayTimeout}
)

// canceledError reports that the caller gave up before the call finished.
// It carries no status, so it classifies like an upstream failure without
// one rather than as bad input.
type canceledError struct {
	cause error
}

func (e *canceledError) Error() string { return "resilience: request cancelled: " + e.cause.Error() }

// HTTPStatus returns 0: no response was received.
func (e *canceledError) HTTPStatus() int { return 0 }

func (e *canceledError) Unwrap() error { return e.cause }

// Canceled marks err as the caller's cancellation. errors.Is still matches
// the wrapped cause. An error that is already marked is returned as is.
func Canceled(err error) error {
	var ce *canceledError
	if err == nil || errors.As(err, &ce) {
		return err
	}
	return &canceledError{cause: err}
}
