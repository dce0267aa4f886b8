package exporters

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/sdk/trace"
)

func TestExporter_InvalidName(t *testing.T) {
	_, err := NewTracingExporter(context.Background(), "invalid", Options{})
	if err == nil {
		t.Fatal("expected error for invalid exporter name")
	}
	if !errors.Is(err, ErrUnknownExporter) {
		t.Errorf("expected ErrUnknownExporter, got: %v", err)
	}
}

// TestExporter_StdoutTracingUsesWriter verifies spans go to the supplied
// writer rather than os.Stdout.
func TestExporter_StdoutTracingUsesWriter(t *testing.T) {
	var buf bytes.Buffer
	exp, err := NewTracingExporter(context.Background(), "stdout", Options{Writer: &buf})
	if err != nil {
		t.Fatalf("failed to create stdout tracing exporter: %v", err)
	}

	tp := trace.NewTracerProvider(trace.WithSyncer(exp))
	_, span := tp.Tracer("test").Start(context.Background(), "github.tool.list_branches")
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := tp.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	if !strings.Contains(buf.String(), "github.tool.list_branches") {
		t.Errorf("expected span in writer output, got: %q", buf.String())
	}
}

func TestExporter_StdoutMetrics(t *testing.T) {
	reader, err := NewMetricsReader(context.Background(), "stdout", Options{Writer: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("failed to create stdout metrics reader: %v", err)
	}
	if reader == nil {
		t.Fatal("expected non-nil reader")
	}
}

func TestExporter_OtlpMissingEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")

	_, err := NewTracingExporter(context.Background(), "otlp", Options{})
	if err == nil {
		t.Fatal("expected error when OTLP endpoint not configured")
	}
	if !errors.Is(err, ErrNoEndpoint) {
		t.Errorf("expected ErrNoEndpoint, got: %v", err)
	}
}

func TestExporter_OtlpWithEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4317")

	exp, err := NewTracingExporter(context.Background(), "otlp", Options{})
	if err != nil {
		t.Fatalf("failed to create OTLP exporter with endpoint: %v", err)
	}
	if exp == nil {
		t.Fatal("expected non-nil exporter")
	}
}

func TestExporter_OtlpMetricsMissingEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")

	if _, err := NewMetricsReader(context.Background(), "otlp", Options{}); err == nil {
		t.Fatal("expected error when OTLP metrics endpoint not configured")
	}
}

func TestExporter_JaegerMissingEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_JAEGER_ENDPOINT", "")

	_, err := NewTracingExporter(context.Background(), "jaeger", Options{})
	if err == nil {
		t.Fatal("expected error when Jaeger endpoint not configured")
	}
	if !errors.Is(err, ErrNoEndpoint) {
		t.Errorf("expected ErrNoEndpoint, got: %v", err)
	}
}

func TestExporter_PrometheusReturnsReader(t *testing.T) {
	reader, err := NewMetricsReader(context.Background(), "prometheus", Options{Registerer: promclient.NewRegistry()})
	if err != nil {
		t.Fatalf("failed to create Prometheus reader: %v", err)
	}
	if reader == nil {
		t.Fatal("expected non-nil reader")
	}
}

func TestExporter_NoneIsUsable(t *testing.T) {
	exp, err := NewTracingExporter(context.Background(), "none", Options{})
	if err != nil {
		t.Fatalf("failed to create none exporter: %v", err)
	}
	if exp == nil {
		t.Fatal("expected discarding exporter")
	}

	reader, err := NewMetricsReader(context.Background(), "", Options{})
	if err != nil {
		t.Fatalf("failed to create none metrics reader: %v", err)
	}
	if reader == nil {
		t.Fatal("expected discarding reader")
	}
}

func TestExporter_MetricsInvalidName(t *testing.T) {
	_, err := NewMetricsReader(context.Background(), "badvalue", Options{})
	if err == nil {
		t.Fatal("expected error for invalid metrics exporter name")
	}
	if !strings.Contains(strings.ToLower(err.Error()), "unknown") {
		t.Errorf("expected error to contain 'unknown', got: %v", err)
	}
}

func TestExporter_EndpointErrorNamesVariables(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")

	_, err := NewTracingExporter(context.Background(), OTLP, Options{})
	if err == nil || !strings.Contains(err.Error(), "OTEL_EXPORTER_OTLP_TRACES_ENDPOINT") {
		t.Errorf("error = %v, want variable names", err)
	}
}

func TestExporter_NamesPerSignal(t *testing.T) {
	for _, name := range TracingNames {
		if name == OTLP || name == Jaeger {
			continue
		}
		if _, err := NewTracingExporter(context.Background(), name, Options{Writer: &bytes.Buffer{}}); err != nil {
			t.Errorf("tracing %q: %v", name, err)
		}
	}
	if _, err := NewTracingExporter(context.Background(), Prometheus, Options{}); !errors.Is(err, ErrUnknownExporter) {
		t.Errorf("prometheus is not a tracing exporter, got %v", err)
	}
	if _, err := NewMetricsReader(context.Background(), Jaeger, Options{}); !errors.Is(err, ErrUnknownExporter) {
		t.Errorf("jaeger is not a metrics exporter, got %v", err)
	}
}
