package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized indicates the backend rejected the request's
// credential (or its absence) on a privileged call. The client's
// unauthorized handler has already been invoked by the time this error
// is returned.
var ErrUnauthorized = errors.New("unauthorized")

// TransportError indicates the request never completed: no
// connectivity, timeout, or a malformed response stream. State is
// unchanged and the operation is safe to retry.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is a transport-level failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// BackendError indicates the backend understood the request and refused
// it, e.g. an illegal status transition under server-side rules. The
// Message carries the server-supplied detail.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend rejected request (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("backend rejected request (status %d): %s", e.StatusCode, e.Message)
}
