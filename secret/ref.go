package secret

import (
	"context"
	"strings"
)

// refPrefix marks a configuration value as a secret reference.
const refPrefix = "secretref:"

// Provider looks up secrets by reference. Implementations must be safe for
// concurrent use and must never log the values they return.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, ref string) (string, error)
}

// Ref is a parsed secretref:<provider>:<path> value.
type Ref struct {
	Provider string
	Path     string
}

// ParseRef parses value as a secret reference. It reports false for plain
// values and for references missing a provider or path.
func ParseRef(value string) (Ref, bool) {
	rest, ok := strings.CutPrefix(value, refPrefix)
	if !ok {
		return Ref{}, false
	}
	provider, path, ok := strings.Cut(rest, ":")
	if !ok || provider == "" || strings.TrimSpace(path) == "" {
		return Ref{}, false
	}
	return Ref{Provider: provider, Path: path}, true
}

func (r Ref) String() string {
	return refPrefix + r.Provider + ":" + r.Path
}
