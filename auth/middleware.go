package auth

import (
	"errors"
	"net/http"

	"github.com/jonwraymond/ghtools/failure"
)

// Middleware authenticates every request with authn and stores the
// identity in the request context. Rejections are answered with 401 and
// internal failures with 500, both carrying the JSON error payload tool
// calls use. A nil authn passes requests through.
func Middleware(authn Authenticator, next http.Handler) http.Handler {
	if authn == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := authn.Authenticate(r.Context(), r)
		switch {
		case err == nil:
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		case rejected(err):
			status := http.StatusUnauthorized
			w.Header().Set("WWW-Authenticate", `Bearer realm="ghtools"`)
			writeFailure(w, failure.Details{
				Message:    "Unauthorized: " + rejectionMessage(err),
				Code:       failure.CodeUnauthorized,
				Status:     &status,
				Suggestion: "Send a valid X-API-Key header or Authorization: Bearer token",
			})
		default:
			writeFailure(w, failure.Describe(&failure.Transport{
				Status:  http.StatusInternalServerError,
				Message: "authentication unavailable",
			}))
		}
	})
}

func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingCredentials):
		return "missing credentials"
	case errors.Is(err, ErrTokenExpired):
		return "credentials expired"
	case errors.Is(err, ErrTokenMalformed):
		return "malformed token"
	default:
		return "invalid credentials"
	}
}

func writeFailure(w http.ResponseWriter, d failure.Details) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(*d.Status)
	_, _ = w.Write([]byte(failure.Payload(d)))
}
