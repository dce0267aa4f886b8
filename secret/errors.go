package secret

import "errors"

var (
	// ErrMissingEnv is returned when a ${VAR} reference names an unset variable.
	ErrMissingEnv = errors.New("secret: missing required environment variables")

	// ErrProviderNotRegistered is returned for an unknown provider name.
	ErrProviderNotRegistered = errors.New("secret: provider is not registered")

	// ErrEmptySecret is returned in strict mode when a provider resolves to "".
	ErrEmptySecret = errors.New("secret: provider returned empty value")

	// ErrInvalidRef is returned for a malformed or unsafe reference.
	ErrInvalidRef = errors.New("secret: invalid reference")
)
