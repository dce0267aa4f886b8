package auth

import (
	"context"
	"time"
)

// Method names how a client authenticated.
type Method string

const (
	MethodAPIKey Method = "api_key"
	MethodJWT    Method = "jwt"
)

// Identity is an authenticated MCP client.
type Identity struct {
	Principal string
	Roles     []string
	Method    Method

	// KeyID names the API key that matched. It is safe to log.
	KeyID string

	// ExpiresAt is zero for credentials that never expire.
	ExpiresAt time.Time

	// Claims holds the verified token claims for JWT identities.
	Claims map[string]any
}

func (id *Identity) String() string {
	if id.KeyID != "" {
		return id.Principal + " (" + string(id.Method) + " " + id.KeyID + ")"
	}
	return id.Principal + " (" + string(id.Method) + ")"
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity stored in ctx, or nil.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey{}).(*Identity)
	return id
}
