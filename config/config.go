package config

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/jonwraymond/ghtools/auth"
	"github.com/jonwraymond/ghtools/cache"
	"github.com/jonwraymond/ghtools/observe"
	"github.com/jonwraymond/ghtools/resilience"
)

// Transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// Config is the complete ghtools configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" env:"SERVER"`
	GitHub  GitHubConfig  `yaml:"github" env:"GITHUB"`
	Cache   CacheConfig   `yaml:"cache" env:"CACHE"`
	Limits  LimitsConfig  `yaml:"limits" env:"LIMITS"`
	Observe ObserveConfig `yaml:"observe" env:"OBSERVE"`
	Health  HealthConfig  `yaml:"health" env:"HEALTH"`

	// Auth guards the SSE transport. It is ignored for stdio.
	Auth auth.Config `yaml:"auth"`

	// Secrets configures secretref providers by name.
	Secrets map[string]map[string]any `yaml:"secrets"`
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	Name      string `yaml:"name" env:"NAME"`
	Version   string `yaml:"version" env:"VERSION"`
	Transport string `yaml:"transport" env:"TRANSPORT"`

	// Addr and BaseURL apply to the SSE transport.
	Addr    string `yaml:"addr" env:"ADDR"`
	BaseURL string `yaml:"base_url" env:"BASE_URL"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// GitHubConfig configures the upstream client.
type GitHubConfig struct {
	Token     string `yaml:"token" env:"TOKEN"`
	BaseURL   string `yaml:"base_url" env:"BASE_URL"`
	UserAgent string `yaml:"user_agent" env:"USER_AGENT"`

	// RequestTimeout bounds each HTTP round trip.
	RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT"`
}

// CacheConfig configures the response cache.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled" env:"ENABLED"`
	DefaultTTL time.Duration `yaml:"default_ttl" env:"DEFAULT_TTL"`

	// MaxTTL caps every stored TTL. Zero, the default, means no cap.
	MaxTTL time.Duration `yaml:"max_ttl" env:"MAX_TTL"`

	SweepInterval time.Duration `yaml:"sweep_interval" env:"SWEEP_INTERVAL"`

	// TTL overrides the per-resource table, keyed by resource name
	// (e.g. "commits", "REPOSITORY_LIST").
	TTL map[string]time.Duration `yaml:"ttl"`
}

// LimitsConfig configures the outbound resilience stack.
type LimitsConfig struct {
	Rate          float64       `yaml:"rate" env:"RATE"`
	Burst         int           `yaml:"burst" env:"BURST"`
	WaitOnLimit   bool          `yaml:"wait_on_limit" env:"WAIT_ON_LIMIT"`
	MaxWait       time.Duration `yaml:"max_wait" env:"MAX_WAIT"`
	MaxConcurrent int           `yaml:"max_concurrent" env:"MAX_CONCURRENT"`
	Timeout       time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// ObserveConfig configures logging, tracing and metrics.
type ObserveConfig struct {
	LogLevel   string        `yaml:"log_level" env:"LOG_LEVEL"`
	RecentLogs int           `yaml:"recent_logs" env:"RECENT_LOGS"`
	Tracing    TracingConfig `yaml:"tracing" env:"TRACING"`
	Metrics    MetricsConfig `yaml:"metrics" env:"METRICS"`
}

// TracingConfig configures span export.
type TracingConfig struct {
	Enabled   bool    `yaml:"enabled" env:"ENABLED"`
	Exporter  string  `yaml:"exporter" env:"EXPORTER"`
	SamplePct float64 `yaml:"sample_pct" env:"SAMPLE_PCT"`
}

// MetricsConfig configures metric export.
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled" env:"ENABLED"`
	Exporter string `yaml:"exporter" env:"EXPORTER"`
}

// HealthConfig configures the side HTTP listener serving health and
// metrics endpoints. An empty Addr disables it.
type HealthConfig struct {
	Addr    string        `yaml:"addr" env:"ADDR"`
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`

	// CacheFor reuses a health report for this long so frequent checks do not
	// spend GitHub quota on every request.
	CacheFor time.Duration `yaml:"cache_for" env:"CACHE_FOR"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Name:            "ghtools",
			Version:         "dev",
			Transport:       TransportStdio,
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		GitHub: GitHubConfig{
			Token:          "${GITHUB_TOKEN}",
			UserAgent:      "ghtools",
			RequestTimeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:       true,
			DefaultTTL:    5 * time.Minute,
			SweepInterval: 10 * time.Minute,
		},
		Limits: LimitsConfig{
			Rate:          10,
			Burst:         20,
			MaxWait:       time.Second,
			MaxConcurrent: 8,
			Timeout:       30 * time.Second,
		},
		Observe: ObserveConfig{
			LogLevel: "info",
			Tracing:  TracingConfig{Exporter: "none", SamplePct: 1},
			Metrics:  MetricsConfig{Exporter: "prometheus"},
		},
		Health: HealthConfig{
			Timeout:  5 * time.Second,
			CacheFor: 10 * time.Second,
		},
		Secrets: map[string]map[string]any{
			"env":  {},
			"file": {},
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Server),
		validation.Field(&c.GitHub),
		validation.Field(&c.Cache),
		validation.Field(&c.Limits),
		validation.Field(&c.Observe),
		validation.Field(&c.Health),
	)

	var errs []error
	if err != nil {
		errs = append(errs, err)
	}
	if c.Server.Transport == TransportSSE {
		if authErr := c.Auth.Validate(); authErr != nil {
			errs = append(errs, authErr)
		}
	}
	return errors.Join(errs...)
}

// Validate implements validation.Validatable.
func (s ServerConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.Transport, validation.Required, validation.In(TransportStdio, TransportSSE)),
		validation.Field(&s.Addr, validation.When(s.Transport == TransportSSE, validation.Required)),
		validation.Field(&s.BaseURL, is.URL),
		validation.Field(&s.ShutdownTimeout, validation.Min(time.Duration(0))),
	)
}

// Validate implements validation.Validatable.
func (g GitHubConfig) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.Token, validation.Required.Error("is required (set GITHUB_TOKEN)")),
		validation.Field(&g.BaseURL, is.URL),
		validation.Field(&g.RequestTimeout, validation.Min(time.Duration(0))),
	)
}

// Validate implements validation.Validatable.
func (c CacheConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.DefaultTTL, validation.Min(time.Duration(0))),
		validation.Field(&c.MaxTTL, validation.Min(time.Duration(0))),
		validation.Field(&c.SweepInterval, validation.Min(time.Duration(0))),
		validation.Field(&c.TTL, validation.By(validResourceNames)),
	)
}

func validResourceNames(v any) error {
	overrides, _ := v.(map[string]time.Duration)
	for name, ttl := range overrides {
		if _, ok := cache.ParseResource(name); !ok {
			return fmt.Errorf("unknown resource %q", name)
		}
		if ttl <= 0 {
			return fmt.Errorf("ttl for %q must be positive", name)
		}
	}
	return nil
}

// Validate implements validation.Validatable.
func (l LimitsConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Rate, validation.Min(0.0)),
		validation.Field(&l.Burst, validation.Min(0)),
		validation.Field(&l.MaxConcurrent, validation.Min(0)),
		validation.Field(&l.MaxWait, validation.Min(time.Duration(0))),
		validation.Field(&l.Timeout, validation.Min(time.Duration(0))),
	)
}

// Validate implements validation.Validatable.
func (h HealthConfig) Validate() error {
	return validation.ValidateStruct(&h,
		validation.Field(&h.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&h.CacheFor, validation.Min(time.Duration(0))),
	)
}

// Validate implements validation.Validatable.
func (o ObserveConfig) Validate() error {
	cfg := o.ObserverConfig("ghtools", "")
	return cfg.Validate()
}

// CachePolicy builds the cache policy. A disabled cache yields
// cache.NoCachePolicy.
func (c CacheConfig) CachePolicy() cache.Policy {
	if !c.Enabled {
		return cache.NoCachePolicy()
	}
	policy := cache.Policy{
		DefaultTTL: c.DefaultTTL,
		MaxTTL:     c.MaxTTL,
	}
	for name, ttl := range c.TTL {
		if r, ok := cache.ParseResource(name); ok {
			if policy.Overrides == nil {
				policy.Overrides = make(map[cache.Resource]time.Duration)
			}
			policy.Overrides[r] = ttl
		}
	}
	return policy
}

// Executor builds the resilience executor for upstream calls. Zero values
// leave the corresponding stage out.
func (l LimitsConfig) Executor() *resilience.Executor {
	var opts []resilience.ExecutorOption
	if l.Rate > 0 {
		opts = append(opts, resilience.WithRateLimiter(resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Rate:        l.Rate,
			Burst:       l.Burst,
			WaitOnLimit: l.WaitOnLimit,
			MaxWait:     l.MaxWait,
		})))
	}
	if l.MaxConcurrent > 0 {
		opts = append(opts, resilience.WithBulkhead(resilience.NewBulkhead(resilience.BulkheadConfig{
			MaxConcurrent: l.MaxConcurrent,
			MaxWait:       l.MaxWait,
		})))
	}
	if l.Timeout > 0 {
		opts = append(opts, resilience.WithTimeout(l.Timeout))
	}
	return resilience.NewExecutor(opts...)
}

// ObserverConfig builds the observe configuration.
func (o ObserveConfig) ObserverConfig(serviceName, version string) observe.Config {
	return observe.Config{
		ServiceName: serviceName,
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:   o.Tracing.Enabled,
			Exporter:  o.Tracing.Exporter,
			SamplePct: o.Tracing.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  o.Metrics.Enabled,
			Exporter: o.Metrics.Exporter,
		},
		Logging: observe.LoggingConfig{
			Enabled:        true,
			Level:          o.LogLevel,
			RecentCapacity: o.RecentLogs,
		},
	}
}
