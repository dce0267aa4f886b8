package auth

import (
	"context"
	"fmt"
	"net/http"
)

// Authorizer decides whether an identity may call a tool.
type Authorizer interface {
	// Authorize returns nil if permitted, or an error (typically *AuthzError).
	Authorize(ctx context.Context, req *AuthzRequest) error

	// Name returns a unique identifier for this authorizer.
	Name() string
}

// AuthzRequest describes a tool invocation to authorize.
type AuthzRequest struct {
	// Subject is the identity making the request.
	Subject *Identity

	// Tool is the MCP tool name (e.g. "list_issues").
	Tool string

	// Tags are the tool's tags (e.g. "read", "write", "issues").
	Tags []string

	// Action is the requested action, "call" for tool invocations.
	Action string
}

// AuthzError represents an authorization failure.
type AuthzError struct {
	Subject string
	Tool    string
	Action  string
	Reason  string
}

// Error returns the error message.
func (e *AuthzError) Error() string {
	return fmt.Sprintf("access denied: %s may not %s %s (%s)", e.Subject, e.Action, e.Tool, e.Reason)
}

// Is reports whether this error matches ErrForbidden.
func (e *AuthzError) Is(target error) bool {
	return target == ErrForbidden
}

// HTTPStatus returns 403 so denials classify as FORBIDDEN.
func (e *AuthzError) HTTPStatus() int {
	return http.StatusForbidden
}

func deny(req *AuthzRequest, reason string) *AuthzError {
	subject := "anonymous"
	if req.Subject != nil && req.Subject.Principal != "" {
		subject = req.Subject.Principal
	}
	return &AuthzError{Subject: subject, Tool: req.Tool, Action: req.Action, Reason: reason}
}

// AllowAllAuthorizer permits all requests.
type AllowAllAuthorizer struct{}

// Authorize always returns nil.
func (AllowAllAuthorizer) Authorize(_ context.Context, _ *AuthzRequest) error {
	return nil
}

// Name returns "allow_all".
func (AllowAllAuthorizer) Name() string {
	return "allow_all"
}

// DenyAllAuthorizer denies all requests.
type DenyAllAuthorizer struct{}

// Authorize always returns an *AuthzError.
func (DenyAllAuthorizer) Authorize(_ context.Context, req *AuthzRequest) error {
	return deny(req, "all requests denied")
}

// Name returns "deny_all".
func (DenyAllAuthorizer) Name() string {
	return "deny_all"
}

// AuthorizerFunc adapts a function to the Authorizer interface.
type AuthorizerFunc func(ctx context.Context, req *AuthzRequest) error

// Authorize calls the function.
func (f AuthorizerFunc) Authorize(ctx context.Context, req *AuthzRequest) error {
	return f(ctx, req)
}

// Name returns "func".
func (f AuthorizerFunc) Name() string {
	return "func"
}

var (
	_ Authorizer = AllowAllAuthorizer{}
	_ Authorizer = DenyAllAuthorizer{}
	_ Authorizer = AuthorizerFunc(nil)
)
