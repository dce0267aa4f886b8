package observe

import (
	"context"
	"time"
)

// ExecuteFunc is the signature of a tool call wrapped by Middleware.
type ExecuteFunc func(ctx context.Context, tool ToolMeta, input any) (any, error)

// Middleware wraps tool calls with tracing, metrics and logging.
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe ExecuteFunc.
//   - Context: Propagates context through tracing spans.
//   - Errors: Errors from wrapped function are recorded and propagated unchanged.
//   - Ownership: Input/output values are passed through without modification.
type Middleware struct {
	tracer  *Tracer
	metrics Metrics
	logger  Logger
	now     func() time.Time
}

// NewMiddleware creates a new Middleware with the given observability components.
func NewMiddleware(tracer *Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = NewTracer(nil)
	}
	if metrics == nil {
		metrics = NopMetrics()
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Metrics returns the metrics recorder used by the middleware.
func (m *Middleware) Metrics() Metrics {
	return m.metrics
}

// CacheLookup counts a cache lookup for tool and notes it on the tool span
// active in ctx.
func (m *Middleware) CacheLookup(ctx context.Context, tool string, hit bool) {
	m.metrics.RecordCacheLookup(ctx, tool, hit)
	AnnotateCacheLookup(ctx, hit)
}

// Logger returns the logger used by the middleware.
func (m *Middleware) Logger() Logger {
	return m.logger
}

// Wrap wraps an ExecuteFunc with tracing, metrics and start/end logging.
func (m *Middleware) Wrap(fn ExecuteFunc) ExecuteFunc {
	return func(ctx context.Context, tool ToolMeta, input any) (any, error) {
		ctx, span := m.tracer.StartSpan(ctx, tool)
		log := m.logger.WithTool(tool)
		ToolStart(ctx, log, tool, input)

		start := m.now()
		result, err := fn(ctx, tool, input)
		duration := m.now().Sub(start)

		m.tracer.EndSpan(span, err)
		m.metrics.RecordExecution(ctx, tool, duration, err)
		ToolEnd(ctx, log, tool, duration, err)

		return result, err
	}
}

// ToolStart logs the start of a tool call at debug level.
func ToolStart(ctx context.Context, log Logger, tool ToolMeta, args any) {
	log.Debug(ctx, "tool started: "+tool.Name, F("args", args))
}

// ToolEnd logs the outcome of a tool call: info on success, error on
// failure.
func ToolEnd(ctx context.Context, log Logger, tool ToolMeta, duration time.Duration, err error) {
	fields := []Field{
		F("duration_ms", duration.Milliseconds()),
		F("success", err == nil),
	}
	if err != nil {
		fields = append(fields, F("error", err.Error()))
		log.Error(ctx, "tool failed: "+tool.Name, fields...)
		return
	}
	log.Info(ctx, "tool completed: "+tool.Name, fields...)
}

// MiddlewareFromObserver creates a Middleware from an Observer's providers.
func MiddlewareFromObserver(obs *Observer) (*Middleware, error) {
	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}
