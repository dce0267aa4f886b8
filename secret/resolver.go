package secret

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Resolver turns configuration values into credentials. Each value is
// expanded against the environment and, when the result is a secret
// reference, looked up through the named provider. A provider answering
// with an empty string is an error: credentials are never optional once
// they are referenced.
type Resolver struct {
	providers map[string]Provider
}

// NewResolver creates a resolver over providers.
func NewResolver(providers ...Provider) *Resolver {
	r := &Resolver{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds p, replacing a provider with the same name.
func (r *Resolver) Register(p Provider) {
	if p == nil {
		return
	}
	r.providers[p.Name()] = p
}

// Providers lists the registered provider names.
func (r *Resolver) Providers() []string {
	return slices.Sorted(maps.Keys(r.providers))
}

// Resolve returns the credential value references. A nil Resolver only
// expands the environment.
func (r *Resolver) Resolve(ctx context.Context, value string) (string, error) {
	expanded, err := ExpandEnvStrict(value)
	if err != nil {
		return "", err
	}
	ref, ok := ParseRef(expanded)
	if !ok {
		if strings.HasPrefix(expanded, refPrefix) {
			return "", fmt.Errorf("%w: %q", ErrInvalidRef, expanded)
		}
		return expanded, nil
	}
	if r == nil {
		return "", fmt.Errorf("%w: %q", ErrProviderNotRegistered, ref.Provider)
	}
	return r.lookup(ctx, ref)
}

// ResolveFields resolves every non-empty field in place. Fields are keyed
// by a display name used in errors; all failures are reported together in
// name order, and no field is modified unless every one resolves.
func (r *Resolver) ResolveFields(ctx context.Context, fields map[string]*string) error {
	resolved := make(map[string]string, len(fields))
	var errs []error
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		value := *fields[name]
		if value == "" {
			continue
		}
		out, err := r.Resolve(ctx, value)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		resolved[name] = out
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	for name, out := range resolved {
		*fields[name] = out
	}
	return nil
}

func (r *Resolver) lookup(ctx context.Context, ref Ref) (string, error) {
	p, ok := r.providers[ref.Provider]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrProviderNotRegistered, ref.Provider)
	}
	v, err := p.Lookup(ctx, ref.Path)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptySecret, ref)
	}
	return v, nil
}
