package ghclient

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/ghtools/failure"
)

func TestConvertError(t *testing.T) {
	tests := []struct {
		name        string
		in          error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "error response",
			in:          &github.ErrorResponse{Response: &http.Response{StatusCode: 403}, Message: "Resource not accessible"},
			wantStatus:  403,
			wantMessage: "Resource not accessible",
		},
		{
			name:        "error response without message",
			in:          &github.ErrorResponse{Response: &http.Response{StatusCode: 502}},
			wantStatus:  502,
			wantMessage: "Bad Gateway",
		},
		{
			name:        "primary rate limit",
			in:          &github.RateLimitError{Message: "API rate limit exceeded"},
			wantStatus:  429,
			wantMessage: "API rate limit exceeded",
		},
		{
			name:        "secondary rate limit",
			in:          &github.AbuseRateLimitError{},
			wantStatus:  429,
			wantMessage: "secondary rate limit exceeded",
		},
		{
			name:        "wrapped error response",
			in:          fmt.Errorf("call: %w", &github.ErrorResponse{Response: &http.Response{StatusCode: 404}, Message: "Not Found"}),
			wantStatus:  404,
			wantMessage: "Not Found",
		},
		{
			name:        "network error",
			in:          errors.New("dial tcp: connection refused"),
			wantStatus:  0,
			wantMessage: "dial tcp: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tr *failure.Transport
			require.ErrorAs(t, convertError(tt.in), &tr)
			assert.Equal(t, tt.wantStatus, tr.Status)
			assert.Equal(t, tt.wantMessage, tr.Message)
		})
	}
}

func TestConvertError_Nil(t *testing.T) {
	assert.NoError(t, convertError(nil))
}

func TestConvertError_NetworkFailureIsAPIError(t *testing.T) {
	d := failure.Describe(convertError(errors.New("timeout")))
	assert.Equal(t, failure.CodeAPIError, d.Code)
	assert.Nil(t, d.Status)
}
