package synse

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/synsekit/synse-go/synse/scheme"
)

// Client errors. Server-reported failures unwrap to one of the first three
// sentinels, so callers can branch with errors.Is without inspecting the
// *APIError payload.
var (
	// ErrInvalidInput is returned when the server rejects a request as
	// malformed (HTTP 400).
	ErrInvalidInput = errors.New("synse: invalid input")

	// ErrNotFound is returned when the requested resource does not exist,
	// e.g. an unknown device or transaction ID (HTTP 404).
	ErrNotFound = errors.New("synse: not found")

	// ErrServerError is returned when the server fails internally while
	// handling a request (HTTP 5xx).
	ErrServerError = errors.New("synse: server error")

	// ErrNotConnected is returned when a WebSocket client method is called
	// before Open has established a connection.
	ErrNotConnected = errors.New("synse: websocket client not connected")

	// ErrClosed is returned for requests pending on, or issued after, a
	// closed connection.
	ErrClosed = errors.New("synse: client closed")
)

// schemeError aliases scheme.Error so it can be embedded in APIError
// without the field name colliding with the Error method.
type schemeError = scheme.Error

// APIError is an error reported by Synse Server itself, carrying the
// decoded error payload. It unwraps to the sentinel matching its HTTP code.
type APIError struct {
	schemeError
}

func (e *APIError) Error() string {
	desc := e.Description
	if ctx := strings.TrimSpace(e.Context); ctx != "" {
		desc = desc + ": " + ctx
	}
	return fmt.Sprintf("synse: server error %d: %s", e.HTTPCode, desc)
}

// Unwrap maps the server's HTTP code onto the matching sentinel error.
func (e *APIError) Unwrap() error {
	switch {
	case e.HTTPCode == http.StatusBadRequest:
		return ErrInvalidInput
	case e.HTTPCode == http.StatusNotFound:
		return ErrNotFound
	case e.HTTPCode >= http.StatusInternalServerError:
		return ErrServerError
	default:
		return nil
	}
}

// newAPIError builds an *APIError from a response status and body. The body
// is expected to hold the server's JSON error payload; anything else (e.g.
// a proxy's plain-text error page) is carried verbatim in the description.
func newAPIError(status int, body []byte) *APIError {
	var e scheme.Error
	if err := json.Unmarshal(body, &e); err != nil || e.HTTPCode == 0 {
		e = scheme.Error{
			HTTPCode:    status,
			Description: strings.TrimSpace(string(body)),
		}
	}
	if e.HTTPCode == 0 {
		e.HTTPCode = status
	}
	return &APIError{schemeError: e}
}
