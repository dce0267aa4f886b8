package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names.
const (
	MetricToolCalls    = "ghtools.tool.calls"
	MetricToolErrors   = "ghtools.tool.errors"
	MetricToolDuration = "ghtools.tool.duration_ms"
	MetricCacheLookups = "ghtools.cache.lookups"
	MetricCacheEntries = "ghtools.cache.entries"
	MetricCacheSweeps  = "ghtools.cache.swept"
)

// Metrics records tool and cache metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordExecution records a tool call with duration and error status.
	RecordExecution(ctx context.Context, meta ToolMeta, duration time.Duration, err error)

	// RecordCacheLookup records a cache hit or miss for a tool.
	RecordCacheLookup(ctx context.Context, tool string, hit bool)

	// RecordSweep records the number of entries a sweep evicted.
	RecordSweep(ctx context.Context, removed int)
}

// CacheCounts reports the current cache population.
type CacheCounts func(ctx context.Context) (total, active, expired int)

type metricsImpl struct {
	meter        metric.Meter
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
	lookups      metric.Int64Counter
	swept        metric.Int64Counter
}

// NewMetrics creates the tool and cache instruments on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	return newMetrics(meter)
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		MetricToolCalls,
		metric.WithDescription("Total number of tool calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		MetricToolErrors,
		metric.WithDescription("Total number of failed tool calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		MetricToolDuration,
		metric.WithDescription("Tool call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	lookups, err := meter.Int64Counter(
		MetricCacheLookups,
		metric.WithDescription("Cache lookups by tool and outcome"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	swept, err := meter.Int64Counter(
		MetricCacheSweeps,
		metric.WithDescription("Expired cache entries removed by the sweeper"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		totalCount:   totalCount,
		errorCount:   errorCount,
		durationHist: durationHist,
		lookups:      lookups,
		swept:        swept,
	}, nil
}

// RecordExecution records metrics for a tool call.
func (m *metricsImpl) RecordExecution(ctx context.Context, meta ToolMeta, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("tool.name", meta.Name),
	}
	if meta.Resource != "" {
		attrs = append(attrs, attribute.String("tool.resource", meta.Resource))
	}
	opt := metric.WithAttributes(attrs...)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordCacheLookup records one cache lookup.
func (m *metricsImpl) RecordCacheLookup(ctx context.Context, tool string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.lookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool.name", tool),
		attribute.String("cache.outcome", outcome),
	))
}

// RecordSweep records entries evicted by one sweep.
func (m *metricsImpl) RecordSweep(ctx context.Context, removed int) {
	m.swept.Add(ctx, int64(removed))
}

// RegisterCacheGauge publishes the cache population as an observable gauge
// with a "state" attribute of total, active or expired. Counts are read on
// each collection.
func RegisterCacheGauge(meter metric.Meter, counts CacheCounts) (metric.Registration, error) {
	gauge, err := meter.Int64ObservableGauge(
		MetricCacheEntries,
		metric.WithDescription("Cache entries by liveness"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	return meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		total, active, expired := counts(ctx)
		o.ObserveInt64(gauge, int64(total), metric.WithAttributes(attribute.String("state", "total")))
		o.ObserveInt64(gauge, int64(active), metric.WithAttributes(attribute.String("state", "active")))
		o.ObserveInt64(gauge, int64(expired), metric.WithAttributes(attribute.String("state", "expired")))
		return nil
	}, gauge)
}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() Metrics {
	return &noopMetrics{}
}

type noopMetrics struct{}

func (m *noopMetrics) RecordExecution(ctx context.Context, meta ToolMeta, duration time.Duration, err error) {
}

func (m *noopMetrics) RecordCacheLookup(ctx context.Context, tool string, hit bool) {}

func (m *noopMetrics) RecordSweep(ctx context.Context, removed int) {}
