package auth

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func BenchmarkAPIKeyAuthenticator_Authenticate(b *testing.B) {
	a := newKeyAuth(b, APIKey{ID: "key-1", Hash: HashAPIKey("test-api-key"), Principal: "bot"})
	ctx := context.Background()
	req := keyRequest(DefaultAPIKeyHeader, "test-api-key")

	b.ResetTimer()
	for b.Loop() {
		_, _ = a.Authenticate(ctx, req)
	}
}

func BenchmarkJWTAuthenticator_Authenticate(b *testing.B) {
	a := newJWTAuth(b, JWTConfig{})
	req := bearer(signToken(b, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{"sub": "alice", "roles": []any{"reader"}}))
	ctx := context.Background()

	b.ResetTimer()
	for b.Loop() {
		_, _ = a.Authenticate(ctx, req)
	}
}

func BenchmarkRBACAuthorizer_Authorize(b *testing.B) {
	a := testRBAC()
	req := &AuthzRequest{
		Subject: &Identity{Principal: "sam", Roles: []string{"triager"}},
		Tool:    "list_issues",
		Tags:    []string{"read", "issues"},
		Action:  "call",
	}
	ctx := context.Background()

	b.ResetTimer()
	for b.Loop() {
		_ = a.Authorize(ctx, req)
	}
}
