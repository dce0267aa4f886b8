package failure

// Code is a stable identifier for a class of failure.
type Code string

// Failure codes.
const (
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"
	CodeRateLimit       Code = "RATE_LIMIT"
	CodeServerError     Code = "SERVER_ERROR"
	CodeAPIError        Code = "API_ERROR"
	CodeUnknownError    Code = "UNKNOWN_ERROR"
)

// Codes returns every failure code.
func Codes() []Code {
	return []Code{
		CodeUnauthorized, CodeForbidden, CodeNotFound, CodeValidationError,
		CodeRateLimit, CodeServerError, CodeAPIError, CodeUnknownError,
	}
}

// UnknownMessage is the message reported for *Opaque failures.
const UnknownMessage = "Unknown error"

// Details is the user-facing description of a failure.
type Details struct {
	Message    string `json:"error"`
	Code       Code   `json:"code"`
	Status     *int   `json:"status,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Error implements error. Classifying a Details again yields
// CodeValidationError, since it carries a message but no status.
func (d Details) Error() string {
	return d.Message
}

// HasStatus reports whether d carries a transport status.
func (d Details) HasStatus() bool {
	return d.Status != nil
}

// Classify maps f to its Details. It is total: a nil Failure is treated
// as *Opaque.
func Classify(f Failure) Details {
	switch x := f.(type) {
	case *Transport:
		if x == nil {
			return unknown()
		}
		return classifyTransport(x)
	case *Generic:
		if x == nil {
			return unknown()
		}
		return Details{
			Message:    x.Message,
			Code:       CodeValidationError,
			Suggestion: "Check that all required parameters are present and valid",
		}
	default:
		return unknown()
	}
}

// Describe classifies an arbitrary value.
func Describe(v any) Details {
	return Classify(FromValue(v))
}

func classifyTransport(t *Transport) Details {
	status := statusPtr(t.Status)

	switch t.Status {
	case 401:
		return Details{
			Message:    "Unauthorized: GitHub token is invalid or expired",
			Code:       CodeUnauthorized,
			Status:     status,
			Suggestion: "Verify that GITHUB_TOKEN is valid and has the required scopes",
		}
	case 403:
		return Details{
			Message:    "Forbidden: you do not have permission to perform this action",
			Code:       CodeForbidden,
			Status:     status,
			Suggestion: "Verify that the token has the scopes or admin rights this operation needs",
		}
	case 404:
		return Details{
			Message:    "Not found: the requested resource does not exist",
			Code:       CodeNotFound,
			Status:     status,
			Suggestion: "Verify that the repository, issue, pull request or resource exists and is accessible",
		}
	case 422:
		return Details{
			Message:    "Validation error: " + t.Message,
			Code:       CodeValidationError,
			Status:     status,
			Suggestion: "Verify that all parameters are correct and valid",
		}
	case 429:
		return Details{
			Message:    "Rate limit exceeded: too many requests to the GitHub API",
			Code:       CodeRateLimit,
			Status:     status,
			Suggestion: "Wait a few minutes before making more requests; cached results reduce API calls",
		}
	case 500, 502, 503, 504:
		return Details{
			Message:    "GitHub server error: " + t.Message,
			Code:       CodeServerError,
			Status:     status,
			Suggestion: "GitHub is experiencing problems; try again later",
		}
	default:
		return Details{
			Message:    "GitHub API error: " + t.Message,
			Code:       CodeAPIError,
			Status:     status,
			Suggestion: "Check your connection and that GitHub is available",
		}
	}
}

func unknown() Details {
	return Details{Message: UnknownMessage, Code: CodeUnknownError}
}

// statusPtr returns nil for an absent (zero) status.
func statusPtr(s int) *int {
	if s == 0 {
		return nil
	}
	return &s
}
