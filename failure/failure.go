package failure

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Failure is a classified failure value. The set of implementations is
// closed: *Transport, *Generic and *Opaque.
type Failure interface {
	failure()
}

// Transport is a failure reported by an upstream HTTP API.
type Transport struct {
	// Status is the HTTP status code, or 0 when the upstream did not report one.
	Status int

	// Message is the upstream error message.
	Message string
}

func (*Transport) failure() {}

// Error implements error.
func (t *Transport) Error() string {
	if t.Status == 0 {
		return t.Message
	}
	return fmt.Sprintf("%d: %s", t.Status, t.Message)
}

// HTTPStatus returns the upstream status code.
func (t *Transport) HTTPStatus() int {
	return t.Status
}

// Generic is an error that carries only a message.
type Generic struct {
	Message string
}

func (*Generic) failure() {}

// Error implements error.
func (g *Generic) Error() string {
	return g.Message
}

// Opaque is a failure with no usable shape.
type Opaque struct{}

func (*Opaque) failure() {}

// statusCoder is implemented by errors that know their HTTP status.
type statusCoder interface {
	HTTPStatus() int
}

// FromError converts err into a Failure.
//
// An error chain containing a *Transport, or any error implementing
// HTTPStatus() int, becomes a *Transport carrying the outermost message.
// Any other non-nil error becomes a *Generic. A nil error is *Opaque.
func FromError(err error) Failure {
	if err == nil {
		return &Opaque{}
	}

	var t *Transport
	if errors.As(err, &t) && t != nil {
		return &Transport{Status: t.Status, Message: t.Message}
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		return &Transport{Status: sc.HTTPStatus(), Message: err.Error()}
	}

	return &Generic{Message: err.Error()}
}

// FromValue converts an arbitrary value into a Failure.
//
// A Failure passes through unchanged and an error goes through FromError.
// A decoded JSON object with a string "message" and a "status" key (of any
// value, including null) is treated as a transport failure. Everything else
// is *Opaque.
func FromValue(v any) Failure {
	switch x := v.(type) {
	case nil:
		return &Opaque{}
	case *Transport:
		if x == nil {
			return &Opaque{}
		}
		return x
	case *Generic:
		if x == nil {
			return &Opaque{}
		}
		return x
	case *Opaque:
		return &Opaque{}
	case error:
		return FromError(x)
	case map[string]any:
		return fromObject(x)
	case json.RawMessage:
		return fromJSON(x)
	default:
		return &Opaque{}
	}
}

func fromJSON(raw json.RawMessage) Failure {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return &Opaque{}
	}
	return fromObject(obj)
}

func fromObject(obj map[string]any) Failure {
	msg, ok := obj["message"].(string)
	if !ok {
		return &Opaque{}
	}
	rawStatus, ok := obj["status"]
	if !ok {
		return &Opaque{}
	}
	return &Transport{Status: statusOf(rawStatus), Message: msg}
}

// statusOf extracts an integral status from a decoded JSON value, returning
// 0 when it is absent or not a whole number.
func statusOf(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		if n == math.Trunc(n) && n > 0 && n < math.MaxInt32 {
			return int(n)
		}
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
	}
	return 0
}
