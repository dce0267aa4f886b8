package observe

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/ghtools/observe/exporters"
)

// Observer owns the telemetry providers for the process. Disabled
// sections are backed by no-op implementations, so callers never check
// for nil. An Observer is safe for concurrent use.
type Observer struct {
	tracer   trace.Tracer
	meter    metric.Meter
	logger   Logger
	recorder *Recorder

	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

// NewObserver validates cfg and builds the enabled providers. Enabled
// providers are installed as the OpenTelemetry globals, and OpenTelemetry's
// internal errors are routed to the structured logger.
func NewObserver(ctx context.Context, cfg Config) (*Observer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &Observer{
		tracer: tracenoop.NewTracerProvider().Tracer(cfg.ServiceName),
		meter:  metricnoop.NewMeterProvider().Meter(cfg.ServiceName),
		logger: NopLogger(),
	}
	if cfg.Logging.Enabled {
		o.logger, o.recorder = newConfiguredLogger(cfg.Logging)
		otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
			o.logger.Warn(context.Background(), "opentelemetry error", F("error", err.Error()))
		}))
	}
	if !cfg.Tracing.Enabled && !cfg.Metrics.Enabled {
		return o, nil
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.Version),
	))
	if err != nil {
		return nil, fmt.Errorf("observe: resource: %w", err)
	}

	if cfg.Tracing.Enabled {
		exp, err := exporters.NewTracingExporter(ctx, cfg.Tracing.Exporter, cfg.exporterOptions())
		if err != nil {
			return nil, fmt.Errorf("observe: tracing: %w", err)
		}
		o.tp = sdktrace.NewTracerProvider(
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sampler(cfg.Tracing.SamplePct)),
			sdktrace.WithBatcher(exp),
		)
		otel.SetTracerProvider(o.tp)
		o.tracer = o.tp.Tracer(cfg.ServiceName)
	}

	if cfg.Metrics.Enabled {
		reader, err := exporters.NewMetricsReader(ctx, cfg.Metrics.Exporter, cfg.exporterOptions())
		if err != nil {
			return nil, errors.Join(fmt.Errorf("observe: metrics: %w", err), o.Shutdown(ctx))
		}
		o.mp = sdkmetric.NewMeterProvider(sdkmetric.WithResource(res), sdkmetric.WithReader(reader))
		otel.SetMeterProvider(o.mp)
		o.meter = o.mp.Meter(cfg.ServiceName)
	}
	return o, nil
}

func newConfiguredLogger(cfg LoggingConfig) (Logger, *Recorder) {
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	if cfg.RecentCapacity < 0 {
		return NewLoggerWithWriter(cfg.Level, w), nil
	}
	rec := NewRecorder(cfg.RecentCapacity)
	return NewLoggerWithWriter(cfg.Level, w, WithRecorder(rec)), rec
}

func sampler(pct float64) sdktrace.Sampler {
	switch {
	case pct >= 1:
		return sdktrace.AlwaysSample()
	case pct <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(pct))
	}
}

func (o *Observer) Tracer() trace.Tracer { return o.tracer }
func (o *Observer) Meter() metric.Meter  { return o.meter }
func (o *Observer) Logger() Logger       { return o.logger }

// Recorder returns the in-memory log ring, or nil when logging or the
// ring is disabled.
func (o *Observer) Recorder() *Recorder { return o.recorder }

// Shutdown flushes and stops the providers. It is safe to call more than
// once.
func (o *Observer) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tp != nil {
		if err := o.tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
		o.tp = nil
	}
	if o.mp != nil {
		if err := o.mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
		o.mp = nil
	}
	return errors.Join(errs...)
}
