// Package exporters builds the OpenTelemetry exporters selected by name in
// configuration.
package exporters

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Exporter names accepted in configuration. An empty name means None.
const (
	None       = "none"
	Stdout     = "stdout"
	OTLP       = "otlp"
	Jaeger     = "jaeger"
	Prometheus = "prometheus"
)

// Names accepted per signal.
var (
	TracingNames = []string{None, Stdout, OTLP, Jaeger}
	MetricsNames = []string{None, Stdout, OTLP, Prometheus}
)

var (
	ErrUnknownExporter = errors.New("unknown exporter")
	ErrNoEndpoint      = errors.New("exporter endpoint not configured")
)

// Options carries the destinations shared by the exporters.
type Options struct {
	// Writer receives stdout exporter output. Defaults to os.Stderr, which
	// keeps telemetry off a stdio transport.
	Writer io.Writer

	// Registerer receives the Prometheus collector. Defaults to
	// prometheus.DefaultRegisterer.
	Registerer promclient.Registerer
}

func (o Options) writer() io.Writer {
	if o.Writer == nil {
		return os.Stderr
	}
	return o.Writer
}

// endpoint returns the first of vars set in the environment.
func endpoint(vars ...string) (string, error) {
	for _, v := range vars {
		if e := os.Getenv(v); e != "" {
			return e, nil
		}
	}
	return "", fmt.Errorf("%w: set %s", ErrNoEndpoint, strings.Join(vars, " or "))
}

// NewTracingExporter creates the span exporter called name. OTLP reads its
// endpoint from the standard OTEL_EXPORTER_OTLP_* variables; Jaeger is
// reached over OTLP at OTEL_EXPORTER_JAEGER_ENDPOINT.
func NewTracingExporter(ctx context.Context, name string, opts Options) (sdktrace.SpanExporter, error) {
	switch name {
	case None, "":
		return stdouttrace.New(stdouttrace.WithWriter(io.Discard))
	case Stdout:
		return stdouttrace.New(stdouttrace.WithWriter(opts.writer()))
	case OTLP:
		if _, err := endpoint("OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"); err != nil {
			return nil, err
		}
		return otlptracegrpc.New(ctx)
	case Jaeger:
		url, err := endpoint("OTEL_EXPORTER_JAEGER_ENDPOINT")
		if err != nil {
			return nil, err
		}
		return otlptracegrpc.New(ctx, otlptracegrpc.WithEndpointURL(url))
	default:
		return nil, fmt.Errorf("%w: tracing %q", ErrUnknownExporter, name)
	}
}

// NewMetricsReader creates the metric reader called name. The Prometheus
// reader is pull based and registers with opts.Registerer; the others push
// periodically.
func NewMetricsReader(ctx context.Context, name string, opts Options) (sdkmetric.Reader, error) {
	var (
		exp sdkmetric.Exporter
		err error
	)
	switch name {
	case None, "":
		exp, err = stdoutmetric.New(stdoutmetric.WithWriter(io.Discard))
	case Stdout:
		exp, err = stdoutmetric.New(stdoutmetric.WithWriter(opts.writer()))
	case OTLP:
		if _, err := endpoint("OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_METRICS_ENDPOINT"); err != nil {
			return nil, err
		}
		exp, err = otlpmetricgrpc.New(ctx)
	case Prometheus:
		var popts []prometheus.Option
		if opts.Registerer != nil {
			popts = append(popts, prometheus.WithRegisterer(opts.Registerer))
		}
		reader, err := prometheus.New(popts...)
		if err != nil {
			return nil, fmt.Errorf("prometheus exporter: %w", err)
		}
		return reader, nil
	default:
		return nil, fmt.Errorf("%w: metrics %q", ErrUnknownExporter, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s metrics exporter: %w", name, err)
	}
	return sdkmetric.NewPeriodicReader(exp), nil
}
