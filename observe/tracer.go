package observe

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// SpanPrefix prefixes every tool span name.
const SpanPrefix = "github.tool."

// Span attribute keys.
const (
	AttrTool     = attribute.Key("tool.name")
	AttrResource = attribute.Key("tool.resource")
	AttrTags     = attribute.Key("tool.tags")
	AttrError    = attribute.Key("tool.error")
	AttrCacheHit = attribute.Key("cache.hit")
)

// EventCacheLookup is added to the active tool span for each cache lookup.
const EventCacheLookup = "cache.lookup"

// ToolMeta describes a tool call for telemetry purposes.
type ToolMeta struct {
	Name     string   // Tool name, e.g. "list_branches" (required)
	Resource string   // Cache resource category, e.g. "BRANCHES" (optional)
	Tags     []string // Tool tags, e.g. "read", "write" (optional)
}

// SpanName returns the deterministic span name for this tool.
func (m ToolMeta) SpanName() string {
	return SpanPrefix + m.Name
}

func (m ToolMeta) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{AttrTool.String(m.Name), AttrError.Bool(false)}
	if m.Resource != "" {
		attrs = append(attrs, AttrResource.String(m.Resource))
	}
	if len(m.Tags) > 0 {
		attrs = append(attrs, AttrTags.StringSlice(m.Tags))
	}
	return attrs
}

// Tracer opens one internal span per tool call. The zero value and a
// Tracer over a nil trace.Tracer record nothing.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer wraps an OpenTelemetry tracer.
func NewTracer(t trace.Tracer) *Tracer {
	if t == nil {
		t = tracenoop.NewTracerProvider().Tracer("")
	}
	return &Tracer{tracer: t}
}

// StartSpan starts the span for a tool call.
func (t *Tracer) StartSpan(ctx context.Context, meta ToolMeta) (context.Context, trace.Span) {
	if t == nil || t.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(meta.attributes()...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpan ends span, marking it failed when err is non-nil. Errors that
// carry an HTTP status, such as GitHub API failures, also set the status
// code attribute.
func (t *Tracer) EndSpan(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		span.End()
		return
	}
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(AttrError.Bool(true))
	var status interface{ HTTPStatus() int }
	if errors.As(err, &status) && status.HTTPStatus() > 0 {
		span.SetAttributes(semconv.HTTPResponseStatusCode(status.HTTPStatus()))
	}
	span.RecordError(err)
	span.End()
}

// AnnotateCacheLookup records a cache lookup on the span active in ctx.
func AnnotateCacheLookup(ctx context.Context, hit bool) {
	trace.SpanFromContext(ctx).AddEvent(EventCacheLookup, trace.WithAttributes(AttrCacheHit.Bool(hit)))
}
