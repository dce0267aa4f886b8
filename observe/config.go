package observe

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonwraymond/ghtools/observe/exporters"
)

var (
	ErrMissingServiceName     = errors.New("observe: service name is required")
	ErrInvalidSamplePct       = errors.New("observe: sample percentage must be between 0.0 and 1.0")
	ErrInvalidTracingExporter = errors.New("observe: invalid tracing exporter")
	ErrInvalidMetricsExporter = errors.New("observe: invalid metrics exporter")
	ErrInvalidLogLevel        = errors.New("observe: invalid log level")
)

// Config selects what the Observer exports and where.
type Config struct {
	ServiceName string
	Version     string
	Tracing     TracingConfig
	Metrics     MetricsConfig
	Logging     LoggingConfig

	// ExportWriter receives stdout exporter output. Defaults to os.Stderr.
	ExportWriter io.Writer

	// Registerer receives the Prometheus collector. Defaults to
	// prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
}

// TracingConfig configures span export.
type TracingConfig struct {
	Enabled   bool
	Exporter  string  // see exporters.TracingNames
	SamplePct float64 // 0.0-1.0
}

// MetricsConfig configures metric export.
type MetricsConfig struct {
	Enabled  bool
	Exporter string // see exporters.MetricsNames
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Enabled bool
	Level   string // debug|info|warn|error, case-insensitive

	// Writer receives log lines. Defaults to os.Stderr.
	Writer io.Writer

	// RecentCapacity is how many entries the Recorder keeps. Zero selects
	// DefaultRecentCapacity; a negative value disables the Recorder.
	RecentCapacity int
}

// Validate reports every problem in the enabled sections.
func (c *Config) Validate() error {
	var errs []error
	if c.ServiceName == "" {
		errs = append(errs, ErrMissingServiceName)
	}
	if c.Tracing.Enabled {
		if !knownExporter(exporters.TracingNames, c.Tracing.Exporter) {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidTracingExporter, c.Tracing.Exporter))
		}
		if c.Tracing.SamplePct < 0 || c.Tracing.SamplePct > 1 {
			errs = append(errs, fmt.Errorf("%w: got %g", ErrInvalidSamplePct, c.Tracing.SamplePct))
		}
	}
	if c.Metrics.Enabled && !knownExporter(exporters.MetricsNames, c.Metrics.Exporter) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidMetricsExporter, c.Metrics.Exporter))
	}
	if c.Logging.Enabled && c.Logging.Level != "" {
		if _, ok := lookupLogLevel(c.Logging.Level); !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level))
		}
	}
	return errors.Join(errs...)
}

func knownExporter(names []string, name string) bool {
	return name == "" || slices.Contains(names, name)
}

func (c *Config) exporterOptions() exporters.Options {
	return exporters.Options{Writer: c.ExportWriter, Registerer: c.Registerer}
}
