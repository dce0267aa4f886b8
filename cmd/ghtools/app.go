package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/ghtools/auth"
	"github.com/jonwraymond/ghtools/cache"
	"github.com/jonwraymond/ghtools/config"
	"github.com/jonwraymond/ghtools/ghclient"
	"github.com/jonwraymond/ghtools/health"
	"github.com/jonwraymond/ghtools/observe"
	"github.com/jonwraymond/ghtools/observe/exporters"
	"github.com/jonwraymond/ghtools/tools"
)

// app holds the long-lived components built from a Config.
type app struct {
	cfg     *config.Config
	obs     *observe.Observer
	log     observe.Logger
	metrics *prometheus.Registry
	cache   *cache.MemoryCache
	sweeper *cache.Sweeper
	gauge   metric.Registration
	mcp     *server.MCPServer
	health  *health.Aggregator

	authn auth.Authenticator
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	metrics := prometheus.NewRegistry()
	metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	oc := cfg.Observe.ObserverConfig(cfg.Server.Name, cfg.Server.Version)
	oc.Registerer = metrics

	obs, err := observe.NewObserver(ctx, oc)
	if err != nil {
		return nil, fmt.Errorf("observe: %w", err)
	}
	a := &app{cfg: cfg, obs: obs, log: obs.Logger(), metrics: metrics}

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return nil, a.abort(ctx, err)
	}

	policy := cfg.Cache.CachePolicy()
	a.cache = cache.NewMemoryCache(policy)
	a.sweeper = cache.NewSweeper(a.cache, cfg.Cache.SweepInterval, mw.Metrics().RecordSweep)
	a.gauge, err = observe.RegisterCacheGauge(obs.Meter(), func(ctx context.Context) (int, int, int) {
		s := a.cache.Stats(ctx)
		return s.Total, s.Active, s.Expired
	})
	if err != nil {
		return nil, a.abort(ctx, err)
	}

	gh, err := ghclient.New(cfg.GitHub.Token,
		ghclient.WithBaseURL(cfg.GitHub.BaseURL),
		ghclient.WithUserAgent(cfg.GitHub.UserAgent),
		ghclient.WithHTTPClient(&http.Client{Timeout: cfg.GitHub.RequestTimeout}),
	)
	if err != nil {
		return nil, a.abort(ctx, err)
	}

	var authz auth.Authorizer = auth.AllowAllAuthorizer{}
	if cfg.Server.Transport == config.TransportSSE && cfg.Auth.Enabled() {
		a.authn, authz, err = auth.New(cfg.Auth)
		if err != nil {
			return nil, a.abort(ctx, err)
		}
	}

	registry, err := tools.New(tools.Config{
		Client:     gh,
		Cache:      a.cache,
		Policy:     &policy,
		Executor:   cfg.Limits.Executor(),
		Observe:    mw,
		Recorder:   obs.Recorder(),
		Authorizer: authz,
	})
	if err != nil {
		return nil, a.abort(ctx, err)
	}

	a.mcp = server.NewMCPServer(cfg.Server.Name, cfg.Server.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithRecovery(),
	)
	registry.Register(a.mcp)

	a.health = health.NewAggregator(
		health.AggregatorConfig{Timeout: cfg.Health.Timeout, MaxAge: cfg.Health.CacheFor},
		health.NewCacheChecker(a.cache, health.CacheCheckerConfig{}),
		health.NewGitHubChecker(gh, health.GitHubCheckerConfig{}),
	)

	return a, nil
}

// abort releases telemetry after a failed build and returns err.
func (a *app) abort(ctx context.Context, err error) error {
	if shutdownErr := a.obs.Shutdown(ctx); shutdownErr != nil {
		return errors.Join(err, shutdownErr)
	}
	return err
}

// run serves until ctx is cancelled or a listener fails, then shuts every
// component down.
func (a *app) run(ctx context.Context) error {
	a.sweeper.Start(ctx)
	a.log.Info(ctx, "ghtools starting",
		observe.F("version", a.cfg.Server.Version),
		observe.F("transport", a.cfg.Server.Transport),
		observe.F("cache_enabled", a.cfg.Cache.Enabled),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	var servers []*http.Server

	if a.cfg.Health.Addr != "" {
		side := &http.Server{Addr: a.cfg.Health.Addr, Handler: a.sideHandler(), ReadHeaderTimeout: 5 * time.Second}
		servers = append(servers, side)
		g.Go(func() error { return listen(side) })
		a.log.Info(ctx, "health listener started", observe.F("addr", side.Addr))
	}

	switch a.cfg.Server.Transport {
	case config.TransportSSE:
		sse, srv := a.sseServer()
		servers = append(servers, srv)
		g.Go(func() error { return listen(srv) })
		a.log.Info(ctx, "sse transport started",
			observe.F("addr", srv.Addr),
			observe.F("auth", a.authn != nil),
		)
		defer func() { _ = sse.Shutdown(context.Background()) }()
	default:
		stdio := server.NewStdioServer(a.mcp)
		stdio.SetErrorLogger(log.New(os.Stderr, "mcp: ", log.LstdFlags))
		g.Go(func() error {
			// The client closing stdin ends the session.
			defer cancel()
			err := stdio.Listen(ctx, os.Stdin, os.Stdout)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		return a.shutdown(servers)
	})

	err := g.Wait()
	if err != nil {
		a.log.Error(context.Background(), "ghtools stopped", observe.F("error", err.Error()))
	}
	return err
}

func listen(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen %s: %w", srv.Addr, err)
	}
	return nil
}

func (a *app) shutdown(servers []*http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	a.log.Info(ctx, "ghtools shutting down")
	a.sweeper.Stop()

	var errs []error
	for _, srv := range servers {
		errs = append(errs, srv.Shutdown(ctx))
	}
	if a.gauge != nil {
		errs = append(errs, a.gauge.Unregister())
	}
	errs = append(errs, a.obs.Shutdown(ctx))
	return errors.Join(errs...)
}

// sseServer builds the SSE transport behind the authentication middleware.
// The authenticated identity is carried into each tool call's context.
func (a *app) sseServer() (*server.SSEServer, *http.Server) {
	baseURL := a.cfg.Server.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost" + a.cfg.Server.Addr
	}
	sse := server.NewSSEServer(a.mcp,
		server.WithBaseURL(baseURL),
		server.WithKeepAlive(true),
		server.WithSSEContextFunc(identityContext),
	)
	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           auth.Middleware(a.authn, sse),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return sse, srv
}

func identityContext(ctx context.Context, r *http.Request) context.Context {
	if id := auth.IdentityFromContext(r.Context()); id != nil {
		return auth.WithIdentity(ctx, id)
	}
	return ctx
}

// sideHandler serves the health endpoints and, when metrics are exported
// through Prometheus, /metrics.
func (a *app) sideHandler() http.Handler {
	mux := http.NewServeMux()
	health.RegisterHandlers(mux, a.health)
	if a.cfg.Observe.Metrics.Enabled && a.cfg.Observe.Metrics.Exporter == exporters.Prometheus {
		mux.Handle("GET /metrics", promhttp.HandlerFor(a.metrics, promhttp.HandlerOpts{}))
	}
	return mux
}
