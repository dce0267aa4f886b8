package failure

import (
	"errors"
	"strings"
	"testing"
)

func TestClassify_Transport(t *testing.T) {
	tests := []struct {
		status      int
		message     string
		wantCode    Code
		wantContain string
	}{
		{401, "Bad credentials", CodeUnauthorized, "invalid or expired"},
		{403, "Forbidden", CodeForbidden, "permission"},
		{404, "Not Found", CodeNotFound, "does not exist"},
		{422, "Validation Failed", CodeValidationError, "Validation error: Validation Failed"},
		{429, "API rate limit exceeded", CodeRateLimit, "Rate limit exceeded"},
		{500, "Internal Server Error", CodeServerError, "GitHub server error: Internal Server Error"},
		{502, "Bad Gateway", CodeServerError, "Bad Gateway"},
		{503, "Service Unavailable", CodeServerError, "Service Unavailable"},
		{504, "Gateway Timeout", CodeServerError, "Gateway Timeout"},
		{409, "Conflict", CodeAPIError, "GitHub API error: Conflict"},
		{418, "teapot", CodeAPIError, "teapot"},
	}

	for _, tt := range tests {
		t.Run(string(tt.wantCode)+"/"+tt.message, func(t *testing.T) {
			d := Classify(&Transport{Status: tt.status, Message: tt.message})
			if d.Code != tt.wantCode {
				t.Errorf("Code = %s, want %s", d.Code, tt.wantCode)
			}
			if d.Status == nil || *d.Status != tt.status {
				t.Errorf("Status = %v, want %d", d.Status, tt.status)
			}
			if !strings.Contains(d.Message, tt.wantContain) {
				t.Errorf("Message = %q, want it to contain %q", d.Message, tt.wantContain)
			}
			if d.Suggestion == "" {
				t.Error("Suggestion should not be empty")
			}
		})
	}
}

func TestClassify_TransportWithoutStatus(t *testing.T) {
	d := Classify(&Transport{Message: "connection reset"})
	if d.Code != CodeAPIError {
		t.Errorf("Code = %s, want %s", d.Code, CodeAPIError)
	}
	if d.HasStatus() {
		t.Errorf("Status = %d, want absent", *d.Status)
	}
	if d.Message != "GitHub API error: connection reset" {
		t.Errorf("Message = %q", d.Message)
	}
}

func TestClassify_Generic(t *testing.T) {
	d := Describe(errors.New("Custom error message"))
	if d.Code != CodeValidationError {
		t.Errorf("Code = %s, want %s", d.Code, CodeValidationError)
	}
	if d.Message != "Custom error message" {
		t.Errorf("Message = %q, want verbatim", d.Message)
	}
	if d.HasStatus() {
		t.Error("Generic failures carry no status")
	}
	if d.Suggestion == "" {
		t.Error("Suggestion should not be empty")
	}
}

func TestClassify_Opaque(t *testing.T) {
	for _, in := range []any{map[string]any{"unknown": "property"}, nil, 12} {
		d := Describe(in)
		if d.Code != CodeUnknownError {
			t.Errorf("Describe(%v).Code = %s, want %s", in, d.Code, CodeUnknownError)
		}
		if d.Message != UnknownMessage {
			t.Errorf("Message = %q, want %q", d.Message, UnknownMessage)
		}
		if d.HasStatus() || d.Suggestion != "" {
			t.Errorf("unknown errors carry no status or suggestion: %+v", d)
		}
	}
}

func TestClassify_NilFailure(t *testing.T) {
	if got := Classify(nil).Code; got != CodeUnknownError {
		t.Errorf("Classify(nil).Code = %s", got)
	}
	if got := Classify((*Transport)(nil)).Code; got != CodeUnknownError {
		t.Errorf("Classify((*Transport)(nil)).Code = %s", got)
	}
}

func TestClassify_RoundTrip(t *testing.T) {
	first := Describe(&Transport{Status: 401, Message: "Bad credentials"})
	second := Describe(first)

	if second.Code != CodeValidationError {
		t.Errorf("re-classified Code = %s, want %s", second.Code, CodeValidationError)
	}
	if second.Message != first.Message {
		t.Errorf("re-classified Message = %q, want %q", second.Message, first.Message)
	}
	if second.HasStatus() {
		t.Error("re-classified details should have no status")
	}
}

func TestClassify_FreshValues(t *testing.T) {
	a := Classify(&Transport{Status: 404})
	b := Classify(&Transport{Status: 404})
	*a.Status = 1
	if *b.Status != 404 {
		t.Error("Classify must not share status storage between results")
	}
}

func TestCodes(t *testing.T) {
	seen := map[Code]bool{}
	for _, c := range Codes() {
		if seen[c] {
			t.Errorf("duplicate code %s", c)
		}
		seen[c] = true
	}
	if len(seen) != 8 {
		t.Errorf("len(Codes()) = %d, want 8", len(seen))
	}
}
