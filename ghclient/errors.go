package ghclient

import (
	"errors"
	"net/http"

	"github.com/google/go-github/v66/github"

	"github.com/jonwraymond/ghtools/failure"
)

// convertError turns a go-github error into a *failure.Transport. Primary
// and secondary rate limit errors report status 429 regardless of the 403
// GitHub may send. Errors without an HTTP response (network failures,
// cancelled contexts) carry no status.
func convertError(err error) error {
	if err == nil {
		return nil
	}

	var rle *github.RateLimitError
	if errors.As(err, &rle) {
		return &failure.Transport{Status: http.StatusTooManyRequests, Message: messageOr(rle.Message, "API rate limit exceeded")}
	}

	var abuse *github.AbuseRateLimitError
	if errors.As(err, &abuse) {
		return &failure.Transport{Status: http.StatusTooManyRequests, Message: messageOr(abuse.Message, "secondary rate limit exceeded")}
	}

	var er *github.ErrorResponse
	if errors.As(err, &er) {
		status := 0
		if er.Response != nil {
			status = er.Response.StatusCode
		}
		return &failure.Transport{Status: status, Message: messageOr(er.Message, http.StatusText(status))}
	}

	var tr *failure.Transport
	if errors.As(err, &tr) {
		return err
	}

	return &failure.Transport{Message: err.Error()}
}

func messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
