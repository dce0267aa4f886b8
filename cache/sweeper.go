package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultSweepInterval is how often a Sweeper reclaims expired entries.
const DefaultSweepInterval = 10 * time.Minute

// Cleaner is the part of Cache a Sweeper needs.
type Cleaner interface {
	Cleanup(ctx context.Context) int
}

// SweepFunc observes each completed sweep.
type SweepFunc func(ctx context.Context, removed int)

// Sweeper periodically calls Cleanup on a cache. It lives outside the cache
// so the cache itself stays free of timers; the process that owns the cache
// starts and stops the sweeper.
type Sweeper struct {
	target   Cleaner
	interval time.Duration
	onSweep  SweepFunc

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewSweeper creates a sweeper for target. A non-positive interval selects
// DefaultSweepInterval. onSweep may be nil.
func NewSweeper(target Cleaner, interval time.Duration, onSweep SweepFunc) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		target:   target,
		interval: interval,
		onSweep:  onSweep,
	}
}

// Interval returns the configured sweep interval.
func (s *Sweeper) Interval() time.Duration {
	return s.interval
}

// Start launches the sweep loop. It is a no-op if the sweeper is already
// running. The loop stops when ctx is cancelled or Stop is called.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.loop(ctx, s.done)
}

// Stop halts the sweep loop and waits for it to exit.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel, done := s.cancel, s.done
	s.running = false
	s.mu.Unlock()

	cancel()
	<-done
}

// SweepOnce runs a single Cleanup pass and returns the number of evicted entries.
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	removed := s.target.Cleanup(ctx)
	if s.onSweep != nil {
		s.onSweep(ctx, removed)
	}
	return removed
}

func (s *Sweeper) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}
