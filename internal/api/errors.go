package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized means the credential was missing or rejected (HTTP 401).
// Callers redirect to re-authentication; the client never retries these.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNoCredential means no token is available yet, so the request was not
// issued at all. Callers wait and retry instead of burning a guaranteed-401
// round trip.
var ErrNoCredential = errors.New("no credential available")

// RequestError is any non-2xx response other than 401. Body carries the
// server's message text verbatim.
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("request failed: status %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed: status %d: %s", e.StatusCode, e.Body)
}
