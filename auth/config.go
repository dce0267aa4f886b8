package auth

import (
	"errors"
	"fmt"
)

// Config configures authentication for the SSE transport.
type Config struct {
	// APIKeys are the accepted static keys.
	APIKeys []APIKeyEntry `yaml:"api_keys"`

	// APIKeyHeader overrides the API key header name.
	APIKeyHeader string `yaml:"api_key_header"`

	// JWT enables HMAC bearer tokens when Secret is set.
	JWT JWTSettings `yaml:"jwt"`

	// Roles and DefaultRole configure tool authorization. With no roles
	// every authenticated client may call every tool.
	Roles       map[string]RoleConfig `yaml:"roles"`
	DefaultRole string                `yaml:"default_role"`
}

// APIKeyEntry declares one API key. Exactly one of Key and Hash is set.
type APIKeyEntry struct {
	ID        string   `yaml:"id"`
	Key       string   `yaml:"key"`
	Hash      string   `yaml:"hash"`
	Principal string   `yaml:"principal"`
	Roles     []string `yaml:"roles"`
}

// JWTSettings configures the JWT authenticator.
type JWTSettings struct {
	Secret     string `yaml:"secret"`
	Issuer     string `yaml:"issuer"`
	Audience   string `yaml:"audience"`
	RolesClaim string `yaml:"roles_claim"`
}

// Enabled reports whether any authenticator is configured.
func (c Config) Enabled() bool {
	return len(c.APIKeys) > 0 || c.JWT.Secret != ""
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	var errs []error
	for i, k := range c.APIKeys {
		switch {
		case k.Key == "" && k.Hash == "":
			errs = append(errs, fmt.Errorf("auth: api_keys[%d]: key or hash is required", i))
		case k.Key != "" && k.Hash != "":
			errs = append(errs, fmt.Errorf("auth: api_keys[%d]: set only one of key and hash", i))
		}
		if k.Principal == "" {
			errs = append(errs, fmt.Errorf("auth: api_keys[%d]: principal is required", i))
		}
	}
	if c.DefaultRole != "" {
		if _, ok := c.Roles[c.DefaultRole]; !ok {
			errs = append(errs, fmt.Errorf("auth: default_role %q is not defined", c.DefaultRole))
		}
	}
	for name, role := range c.Roles {
		for _, parent := range role.Inherits {
			if _, ok := c.Roles[parent]; !ok {
				errs = append(errs, fmt.Errorf("auth: role %q inherits undefined role %q", name, parent))
			}
		}
	}
	return errors.Join(errs...)
}

// New builds the authenticator and authorizer described by cfg. The
// authenticator is nil when no method is configured.
func New(cfg Config) (Authenticator, Authorizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	var authz Authorizer = AllowAllAuthorizer{}
	if len(cfg.Roles) > 0 {
		authz = NewRBACAuthorizer(RBACConfig{Roles: cfg.Roles, DefaultRole: cfg.DefaultRole})
	}

	var chain Chain
	if cfg.JWT.Secret != "" {
		a, err := NewJWTAuthenticator(JWTConfig{
			Secret:     []byte(cfg.JWT.Secret),
			Issuer:     cfg.JWT.Issuer,
			Audience:   cfg.JWT.Audience,
			RolesClaim: cfg.JWT.RolesClaim,
		})
		if err != nil {
			return nil, nil, err
		}
		chain = append(chain, a)
	}
	if len(cfg.APIKeys) > 0 {
		keys := make([]APIKey, len(cfg.APIKeys))
		for i, k := range cfg.APIKeys {
			keys[i] = APIKey{ID: k.ID, Hash: k.Hash, Principal: k.Principal, Roles: k.Roles}
			if k.Key != "" {
				keys[i].Hash = HashAPIKey(k.Key)
			}
			if k.ID == "" {
				keys[i].ID = fmt.Sprintf("key-%d", i)
			}
		}
		a, err := NewAPIKeyAuthenticator(cfg.APIKeyHeader, keys...)
		if err != nil {
			return nil, nil, err
		}
		chain = append(chain, a)
	}

	switch len(chain) {
	case 0:
		return nil, authz, nil
	case 1:
		return chain[0], authz, nil
	default:
		return chain, authz, nil
	}
}
