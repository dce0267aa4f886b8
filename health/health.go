package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"time"
)

var (
	// ErrCheckTimeout is reported when a check outlives the aggregator
	// timeout.
	ErrCheckTimeout = errors.New("health: check timed out")

	// ErrUnknownCheck is returned for a check name nobody registered.
	ErrUnknownCheck = errors.New("health: unknown check")
)

// Status is the state of one component, ordered by severity.
type Status int

const (
	StatusHealthy Status = iota
	StatusDegraded
	StatusUnhealthy
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// MarshalText renders the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a status name.
func (s *Status) UnmarshalText(text []byte) error {
	for _, c := range []Status{StatusHealthy, StatusDegraded, StatusUnhealthy} {
		if c.String() == string(text) {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("health: invalid status %q", text)
}

// Result is the outcome of one check.
type Result struct {
	Status   Status
	Message  string
	Details  map[string]any
	Duration time.Duration
	Err      error
}

type resultJSON struct {
	Status     Status         `json:"status"`
	Message    string         `json:"message,omitempty"`
	DurationMs int64          `json:"duration_ms"`
	Details    map[string]any `json:"details,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// MarshalJSON renders the duration in milliseconds and the error as text.
func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		Status:     r.Status,
		Message:    r.Message,
		DurationMs: r.Duration.Milliseconds(),
		Details:    r.Details,
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}

// Healthy builds a healthy result with a formatted message.
func Healthy(format string, args ...any) Result {
	return Result{Status: StatusHealthy, Message: fmt.Sprintf(format, args...)}
}

// Degraded builds a degraded result with a formatted message.
func Degraded(format string, args ...any) Result {
	return Result{Status: StatusDegraded, Message: fmt.Sprintf(format, args...)}
}

// Unhealthy builds an unhealthy result carrying err.
func Unhealthy(err error, message string) Result {
	return Result{Status: StatusUnhealthy, Message: message, Err: err}
}

// With returns a copy of r with key set in its details.
func (r Result) With(key string, value any) Result {
	details := make(map[string]any, len(r.Details)+1)
	maps.Copy(details, r.Details)
	details[key] = value
	r.Details = details
	return r
}

// Checker checks one component.
type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}

type funcChecker struct {
	name string
	fn   func(context.Context) Result
}

func (f funcChecker) Name() string                     { return f.name }
func (f funcChecker) Check(ctx context.Context) Result { return f.fn(ctx) }

// CheckFunc adapts fn into a Checker called name.
func CheckFunc(name string, fn func(context.Context) Result) Checker {
	return funcChecker{name: name, fn: fn}
}
