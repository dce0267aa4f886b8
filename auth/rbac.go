package auth

import (
	"context"
	"slices"
	"strings"
)

// RBACConfig configures the role-based authorizer.
type RBACConfig struct {
	// Roles maps role names to their permissions.
	Roles map[string]RoleConfig `yaml:"roles"`

	// DefaultRole is assigned to identities without explicit roles.
	DefaultRole string `yaml:"default_role"`
}

// RoleConfig defines which tools a role may call.
//
// A tool is permitted when it matches AllowedTools or carries one of
// AllowedTags, unless it matches DeniedTools. Patterns accept a trailing "*".
type RoleConfig struct {
	Inherits     []string `yaml:"inherits"`
	AllowedTools []string `yaml:"allowed_tools"`
	DeniedTools  []string `yaml:"denied_tools"`
	AllowedTags  []string `yaml:"allowed_tags"`
}

// RBACAuthorizer provides role-based access control over tools.
type RBACAuthorizer struct {
	config RBACConfig
}

// NewRBACAuthorizer creates a new RBAC authorizer.
func NewRBACAuthorizer(config RBACConfig) *RBACAuthorizer {
	return &RBACAuthorizer{config: config}
}

// Name returns "rbac".
func (a *RBACAuthorizer) Name() string {
	return "rbac"
}

// Authorize checks the subject's roles, including inherited ones. A deny in
// any role wins over an allow in another.
func (a *RBACAuthorizer) Authorize(_ context.Context, req *AuthzRequest) error {
	if req.Subject == nil {
		return deny(req, "no identity")
	}

	allowed := false
	for _, name := range a.collectRoles(req.Subject) {
		role, ok := a.config.Roles[name]
		if !ok {
			continue
		}
		if matchAny(role.DeniedTools, req.Tool) {
			return deny(req, "denied for role "+name)
		}
		if matchAny(role.AllowedTools, req.Tool) || hasTag(role.AllowedTags, req.Tags) {
			allowed = true
		}
	}

	if !allowed {
		return deny(req, "no role permits this tool")
	}
	return nil
}

func (a *RBACAuthorizer) collectRoles(subject *Identity) []string {
	pending := slices.Clone(subject.Roles)
	if len(pending) == 0 && a.config.DefaultRole != "" {
		pending = append(pending, a.config.DefaultRole)
	}

	seen := make(map[string]bool)
	var result []string
	for len(pending) > 0 {
		current := pending[0]
		pending = pending[1:]

		if seen[current] {
			continue
		}
		seen[current] = true
		result = append(result, current)

		if role, ok := a.config.Roles[current]; ok {
			pending = append(pending, role.Inherits...)
		}
	}
	return result
}

func matchAny(patterns []string, value string) bool {
	return slices.ContainsFunc(patterns, func(p string) bool {
		return matchPattern(p, value)
	})
}

func hasTag(allowed, tags []string) bool {
	for _, t := range tags {
		if slices.Contains(allowed, t) || slices.Contains(allowed, "*") {
			return true
		}
	}
	return false
}

// matchPattern matches a pattern against a value.
// Supports "*" alone or as a trailing wildcard.
func matchPattern(pattern, value string) bool {
	if pattern == "*" {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(value, prefix)
	}
	return pattern == value
}

var _ Authorizer = (*RBACAuthorizer)(nil)
