package resilience

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// DefaultMaxConcurrent caps in-flight GitHub calls when no cap is configured.
const DefaultMaxConcurrent = 10

// BulkheadConfig configures the bulkhead.
type BulkheadConfig struct {
	// MaxConcurrent is the number of upstream calls allowed in flight.
	MaxConcurrent int

	// MaxWait is how long a call may queue for a slot. Zero refuses
	// immediately when the bulkhead is full.
	MaxWait time.Duration
}

// Bulkhead caps how many upstream calls run at once.
type Bulkhead struct {
	config BulkheadConfig
	slots  *semaphore.Weighted

	mu    sync.Mutex
	stats BulkheadMetrics
}

// NewBulkhead creates a bulkhead. A non-positive MaxConcurrent selects
// DefaultMaxConcurrent.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = DefaultMaxConcurrent
	}
	return &Bulkhead{
		config: config,
		slots:  semaphore.NewWeighted(int64(config.MaxConcurrent)),
		stats:  BulkheadMetrics{MaxConcurrent: config.MaxConcurrent},
	}
}

// Acquire takes a slot, queueing for up to MaxWait. It returns
// ErrBulkheadFull when no slot frees up in time and the caller's error
// when ctx ends first; only the former counts as a rejection.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	if err := b.take(ctx); err != nil {
		if ctx.Err() != nil {
			return Canceled(context.Cause(ctx))
		}
		b.update(func(s *BulkheadMetrics) { s.Rejected++ })
		return ErrBulkheadFull
	}
	b.update(func(s *BulkheadMetrics) {
		s.Active++
		s.MaxActive = max(s.MaxActive, s.Active)
	})
	return nil
}

func (b *Bulkhead) take(ctx context.Context) error {
	if b.slots.TryAcquire(1) {
		return nil
	}
	if b.config.MaxWait <= 0 {
		return ErrBulkheadFull
	}
	ctx, cancel := context.WithTimeout(ctx, b.config.MaxWait)
	defer cancel()
	return b.slots.Acquire(ctx, 1)
}

// Release returns a slot taken by Acquire. Extra calls are ignored.
func (b *Bulkhead) Release() {
	held := false
	b.update(func(s *BulkheadMetrics) {
		if s.Active > 0 {
			s.Active--
			held = true
		}
	})
	if held {
		b.slots.Release(1)
	}
}

func (b *Bulkhead) update(fn func(*BulkheadMetrics)) {
	b.mu.Lock()
	fn(&b.stats)
	b.mu.Unlock()
}

// Execute runs op while holding a slot.
func (b *Bulkhead) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := b.Acquire(ctx); err != nil {
		return err
	}
	defer b.Release()
	return op(ctx)
}

// Metrics returns a snapshot of the bulkhead's occupancy.
func (b *Bulkhead) Metrics() BulkheadMetrics {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.stats
	s.Available = s.MaxConcurrent - s.Active
	return s
}

// BulkheadMetrics is the occupancy reported under "bulkhead" by cache_stats.
type BulkheadMetrics struct {
	Active        int   `json:"active"`
	MaxActive     int   `json:"max_active"`
	Available     int   `json:"available"`
	MaxConcurrent int   `json:"max_concurrent"`
	Rejected      int64 `json:"rejected"`
}
