package auth

import (
	"context"
	"errors"
	"net/http"
)

// Authenticator identifies the client behind an HTTP request.
//
// Authenticate returns ErrMissingCredentials when the request carries none
// of the credentials the authenticator reads, and one of the other auth
// sentinels when credentials are present but rejected. Any other error is
// an internal failure. Implementations are safe for concurrent use.
type Authenticator interface {
	Name() string
	Authenticate(ctx context.Context, r *http.Request) (*Identity, error)
}

// rejected reports whether err refuses the credentials, as opposed to an
// internal failure.
func rejected(err error) bool {
	return errors.Is(err, ErrMissingCredentials) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenMalformed)
}

// Chain accepts a request when any of its authenticators does. An
// authenticator that finds no credentials is skipped; if every one fails,
// the first specific rejection is returned.
type Chain []Authenticator

func (c Chain) Name() string { return "chain" }

func (c Chain) Authenticate(ctx context.Context, r *http.Request) (*Identity, error) {
	var rejection error
	for _, a := range c {
		id, err := a.Authenticate(ctx, r)
		switch {
		case err == nil:
			return id, nil
		case errors.Is(err, ErrMissingCredentials):
		case rejected(err):
			if rejection == nil {
				rejection = err
			}
		default:
			return nil, err
		}
	}
	if rejection != nil {
		return nil, rejection
	}
	return nil, ErrMissingCredentials
}

var _ Authenticator = Chain(nil)
