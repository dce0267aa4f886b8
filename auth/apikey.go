package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultAPIKeyHeader carries API keys unless configured otherwise.
const DefaultAPIKeyHeader = "X-API-Key"

// APIKey is an accepted static key. Only its hash is kept.
type APIKey struct {
	// ID names the key in logs.
	ID        string
	Hash      string // see HashAPIKey
	Principal string
	Roles     []string
	ExpiresAt time.Time
}

// APIKeyAuthenticator accepts the static keys it was built with.
type APIKeyAuthenticator struct {
	header string
	keys   map[string]APIKey
	now    func() time.Time
}

// NewAPIKeyAuthenticator indexes keys by hash. An empty header selects
// DefaultAPIKeyHeader. Two keys with the same hash are an error.
func NewAPIKeyAuthenticator(header string, keys ...APIKey) (*APIKeyAuthenticator, error) {
	if header == "" {
		header = DefaultAPIKeyHeader
	}
	a := &APIKeyAuthenticator{header: header, keys: make(map[string]APIKey, len(keys)), now: time.Now}
	for _, k := range keys {
		if _, dup := a.keys[k.Hash]; dup {
			return nil, fmt.Errorf("auth: api key %q duplicates another key", k.ID)
		}
		a.keys[k.Hash] = k
	}
	return a, nil
}

func (a *APIKeyAuthenticator) Name() string { return string(MethodAPIKey) }

func (a *APIKeyAuthenticator) Authenticate(_ context.Context, r *http.Request) (*Identity, error) {
	key := strings.TrimSpace(r.Header.Get(a.header))
	if key == "" {
		return nil, ErrMissingCredentials
	}
	k, ok := a.keys[HashAPIKey(key)]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if !k.ExpiresAt.IsZero() && a.now().After(k.ExpiresAt) {
		return nil, fmt.Errorf("%w: api key %s", ErrTokenExpired, k.ID)
	}
	return &Identity{
		Principal: k.Principal,
		Roles:     k.Roles,
		Method:    MethodAPIKey,
		KeyID:     k.ID,
		ExpiresAt: k.ExpiresAt,
	}, nil
}

// HashAPIKey returns the hex SHA-256 of key, the form keys are stored in.
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

var _ Authenticator = (*APIKeyAuthenticator)(nil)
