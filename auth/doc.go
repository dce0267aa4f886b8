// Package auth guards the SSE transport.
//
// Clients authenticate with a static API key (stored as a SHA-256 hash) or
// an HMAC-signed JWT. Middleware attaches the resulting Identity to the
// request context; tool handlers read it back with IdentityFromContext and
// consult an Authorizer, which matches tool names and tags against the
// identity's roles.
package auth
