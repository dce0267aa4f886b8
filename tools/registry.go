package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jonwraymond/ghtools/auth"
	"github.com/jonwraymond/ghtools/cache"
	"github.com/jonwraymond/ghtools/failure"
	"github.com/jonwraymond/ghtools/ghclient"
	"github.com/jonwraymond/ghtools/observe"
	"github.com/jonwraymond/ghtools/resilience"
)

var (
	// ErrNoClient is returned by New when Config.Client is nil.
	ErrNoClient = errors.New("tools: github client is required")

	// ErrUnknownTool is returned by Call for an unregistered tool name.
	ErrUnknownTool = errors.New("tools: unknown tool")
)

// Config wires a Registry to its collaborators. Only Client is required.
type Config struct {
	Client ghclient.Client

	// Cache stores tool responses. Defaults to a MemoryCache built from
	// Policy.
	Cache cache.Cache

	// Policy supplies the per-resource TTLs. Defaults to cache.DefaultPolicy.
	Policy *cache.Policy

	// Executor guards upstream calls. Nil runs them directly.
	Executor *resilience.Executor

	// Observe wraps every call with tracing, metrics and logging.
	Observe *observe.Middleware

	// Recorder backs the log section of cache_stats. May be nil.
	Recorder *observe.Recorder

	// Authorizer is consulted before every call. Nil allows everything.
	Authorizer auth.Authorizer
}

// Registry holds the GitHub tools and runs them through the call pipeline.
type Registry struct {
	client   ghclient.Client
	cache    cache.Cache
	policy   cache.Policy
	cached   *cache.CacheMiddleware
	exec     *resilience.Executor
	observe  *observe.Middleware
	recorder *observe.Recorder
	authz    auth.Authorizer

	entries []entry
	byName  map[string]int
}

// New builds a Registry with every tool defined.
func New(cfg Config) (*Registry, error) {
	if cfg.Client == nil {
		return nil, ErrNoClient
	}
	policy := cache.DefaultPolicy()
	if cfg.Policy != nil {
		policy = *cfg.Policy
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewMemoryCache(policy)
	}
	if cfg.Observe == nil {
		cfg.Observe = observe.NewMiddleware(nil, nil, nil)
	}
	if cfg.Authorizer == nil {
		cfg.Authorizer = auth.AllowAllAuthorizer{}
	}

	r := &Registry{
		client:   cfg.Client,
		cache:    cfg.Cache,
		policy:   policy,
		exec:     cfg.Executor,
		observe:  cfg.Observe,
		recorder: cfg.Recorder,
		authz:    cfg.Authorizer,
		byName:   make(map[string]int),
	}
	r.cached = cache.NewCacheMiddleware(cfg.Cache, nil, policy, nil,
		cache.WithLookupObserver(cfg.Observe.CacheLookup))

	for _, e := range r.definitions() {
		if _, dup := r.byName[e.tool.Name]; dup {
			return nil, fmt.Errorf("tools: duplicate tool %q", e.tool.Name)
		}
		r.byName[e.tool.Name] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	return r, nil
}

// Tools returns the tool definitions in registration order.
func (r *Registry) Tools() []mcp.Tool {
	out := make([]mcp.Tool, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.tool
	}
	return out
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.tool.Name
	}
	return out
}

// Register adds every tool and resource to s.
func (r *Registry) Register(s *server.MCPServer) {
	for _, e := range r.entries {
		s.AddTool(e.tool, r.handler(e))
	}
	r.registerResources(s)
}

// Call runs the named tool with raw arguments and returns its JSON payload.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) ([]byte, error) {
	i, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return r.call(ctx, r.entries[i], args)
}

func (r *Registry) handler(e entry) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := r.call(ctx, e, req.GetArguments())
		if err != nil {
			return failure.Envelope(err), nil
		}
		return mcp.NewToolResultText(string(out)), nil
	}
}

// call is the per-invocation pipeline: observe, authorize, bind, then
// either the cache middleware (cacheable tools) or the upstream call.
func (r *Registry) call(ctx context.Context, e entry, raw map[string]any) ([]byte, error) {
	run := r.observe.Wrap(func(ctx context.Context, meta observe.ToolMeta, _ any) (any, error) {
		if err := r.authorize(ctx, e); err != nil {
			return nil, err
		}
		args, err := e.bind(raw)
		if err != nil {
			return nil, err
		}
		if !e.cacheable() {
			out, err := r.fetch(ctx, e, args)
			if err == nil {
				r.invalidate(ctx, args)
			}
			return out, err
		}
		out, err := r.cached.Execute(ctx, cache.Request{
			ToolID: e.tool.Name,
			Input:  args,
			Key:    args.cacheKey(),
			TTL:    r.policy.TTLFor(e.resource),
			Tags:   e.tags,
		}, func(ctx context.Context, _ string, _ any) ([]byte, error) {
			return r.fetch(ctx, e, args)
		})
		if err != nil && ctx.Err() != nil && errors.Is(err, context.Cause(ctx)) {
			err = resilience.Canceled(err)
		}
		return out, err
	})

	out, err := run(ctx, e.meta(), raw)
	if err != nil {
		return nil, err
	}
	payload, _ := out.([]byte)
	return payload, nil
}

// staler is implemented by write arguments whose success makes cached reads
// of the same object stale.
type staler interface {
	staleKeys() []string
}

func (r *Registry) invalidate(ctx context.Context, args arguments) {
	s, ok := args.(staler)
	if !ok {
		return
	}
	for _, key := range s.staleKeys() {
		r.cached.Invalidate(ctx, key)
	}
}

func (r *Registry) authorize(ctx context.Context, e entry) error {
	return r.authz.Authorize(ctx, &auth.AuthzRequest{
		Subject: auth.IdentityFromContext(ctx),
		Tool:    e.tool.Name,
		Tags:    e.tags,
		Action:  "call",
	})
}

// fetch runs the tool body, through the executor when it reaches GitHub,
// and encodes the response.
func (r *Registry) fetch(ctx context.Context, e entry, args arguments) ([]byte, error) {
	var (
		v   any
		err error
	)
	if e.local {
		v, err = e.run(ctx, args)
	} else {
		v, err = resilience.Do(ctx, r.exec, func(ctx context.Context) (any, error) {
			return e.run(ctx, args)
		})
	}
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(v, "", "  ")
}

// entry is one registered tool.
type entry struct {
	tool     mcp.Tool
	resource cache.Resource
	tags     []string

	// nocache marks tools whose responses are never stored.
	nocache bool

	// local marks tools answered without calling GitHub.
	local bool

	bind func(raw map[string]any) (arguments, error)
	run  func(ctx context.Context, args arguments) (any, error)
}

func (e entry) cacheable() bool {
	return !e.nocache && !e.local
}

func (e entry) meta() observe.ToolMeta {
	m := observe.ToolMeta{Name: e.tool.Name, Tags: e.tags}
	if e.cacheable() {
		m.Resource = e.resource.String()
	}
	return m
}

// define builds an entry whose body receives the concrete argument type.
func define[A arguments](tool mcp.Tool, resource cache.Resource, tags []string, newArgs func() A, run func(context.Context, A) (any, error)) entry {
	return entry{
		tool:     tool,
		resource: resource,
		tags:     slices.Clone(tags),
		bind: func(raw map[string]any) (arguments, error) {
			a := newArgs()
			if err := bind(raw, a); err != nil {
				return nil, err
			}
			return a, nil
		},
		run: func(ctx context.Context, args arguments) (any, error) {
			return run(ctx, args.(A))
		},
	}
}
