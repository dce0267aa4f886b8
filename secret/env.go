package secret

import (
	"context"
	"fmt"
	"os"
)

// EnvProvider resolves references of the form secretref:env:NAME from the
// process environment, optionally under a fixed prefix.
type EnvProvider struct {
	Prefix string
}

// Name returns "env".
func (p *EnvProvider) Name() string { return "env" }

// Lookup reads Prefix+ref. An unset variable is an error; a set but
// empty one is returned as "".
func (p *EnvProvider) Lookup(_ context.Context, ref string) (string, error) {
	key := p.Prefix + ref
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingEnv, key)
	}
	return v, nil
}


func newEnvProvider(cfg map[string]any) (Provider, error) {
	prefix, _ := cfg["prefix"].(string)
	return &EnvProvider{Prefix: prefix}, nil
}
