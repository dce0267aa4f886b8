// Package ghclient is a narrow adapter over the GitHub REST API.
//
// Client exposes only the calls the tool layer needs and returns reshaped,
// JSON-ready structs instead of go-github's pointer-heavy models. Errors
// returned by go-github are converted at this boundary into
// *failure.Transport values so callers can classify them without knowing
// about go-github.
package ghclient
