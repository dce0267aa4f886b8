package health

import (
	"context"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// AggregatorConfig configures an Aggregator.
type AggregatorConfig struct {
	// Timeout bounds a whole run. Default: 5 seconds.
	Timeout time.Duration

	// MaxAge lets Run return the previous report while it is younger than
	// this, so frequent checks do not reach GitHub every time. Zero runs
	// the checks on every call.
	MaxAge time.Duration
}

// Report is the combined outcome of every registered check.
type Report struct {
	Status    Status            `json:"status"`
	CheckedAt time.Time         `json:"checked_at"`
	Checks    map[string]Result `json:"checks"`
}

// Ready reports whether the server should receive traffic. A degraded
// server is still ready.
func (r Report) Ready() bool {
	return r.Status != StatusUnhealthy
}

// Aggregator runs registered checkers in parallel and combines their
// results. It is safe for concurrent use.
type Aggregator struct {
	config AggregatorConfig
	now    func() time.Time

	mu       sync.Mutex
	checkers []Checker
	last     *Report
}

// NewAggregator creates an aggregator with the given checkers.
func NewAggregator(config AggregatorConfig, checkers ...Checker) *Aggregator {
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	a := &Aggregator{config: config, now: time.Now}
	for _, c := range checkers {
		a.Register(c)
	}
	return a
}

// Register adds c, replacing a checker with the same name.
func (a *Aggregator) Register(c Checker) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.last = nil
	if i := a.indexLocked(c.Name()); i >= 0 {
		a.checkers[i] = c
		return
	}
	a.checkers = append(a.checkers, c)
}

// Names lists the registered checkers in registration order.
func (a *Aggregator) Names() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	names := make([]string, len(a.checkers))
	for i, c := range a.checkers {
		names[i] = c.Name()
	}
	return names
}

func (a *Aggregator) indexLocked(name string) int {
	return slices.IndexFunc(a.checkers, func(c Checker) bool { return c.Name() == name })
}

// Run executes every check, or returns the cached report while it is
// younger than MaxAge. The report status is the most severe check status.
func (a *Aggregator) Run(ctx context.Context) Report {
	a.mu.Lock()
	if a.last != nil && a.config.MaxAge > 0 && a.now().Sub(a.last.CheckedAt) < a.config.MaxAge {
		report := *a.last
		a.mu.Unlock()
		return report
	}
	checkers := slices.Clone(a.checkers)
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	results := make([]Result, len(checkers))
	// Failures live in the Result, so one failing check never cancels the
	// others.
	var g errgroup.Group
	for i, c := range checkers {
		g.Go(func() error {
			results[i] = a.run(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	report := Report{
		Status:    StatusHealthy,
		CheckedAt: a.now(),
		Checks:    make(map[string]Result, len(checkers)),
	}
	for i, c := range checkers {
		report.Checks[c.Name()] = results[i]
		report.Status = max(report.Status, results[i].Status)
	}

	a.mu.Lock()
	a.last = &report
	a.mu.Unlock()
	return report
}

// Check runs the named checker alone, bypassing the report cache.
func (a *Aggregator) Check(ctx context.Context, name string) (Result, error) {
	a.mu.Lock()
	i := a.indexLocked(name)
	var c Checker
	if i >= 0 {
		c = a.checkers[i]
	}
	a.mu.Unlock()
	if c == nil {
		return Result{}, ErrUnknownCheck
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()
	return a.run(ctx, c), nil
}

// run executes c, reporting it unhealthy if it outlives ctx.
func (a *Aggregator) run(ctx context.Context, c Checker) Result {
	start := a.now()
	done := make(chan Result, 1)
	go func() {
		done <- c.Check(ctx)
	}()

	var r Result
	select {
	case r = <-done:
	case <-ctx.Done():
		r = Unhealthy(ErrCheckTimeout, "check timed out")
	}
	r.Duration = a.now().Sub(start)
	return r
}
