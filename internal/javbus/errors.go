package javbus

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an APIError.
type ErrorKind int

const (
	// KindNetwork covers transport failures, including timeouts.
	KindNetwork ErrorKind = iota
	// KindHTTP covers non-2xx responses.
	KindHTTP
	// KindDecode covers malformed response bodies.
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	case KindDecode:
		return "decode"
	}
	return "unknown"
}

// APIError is the failure of a single metadata API call. Calls are never
// retried; the command layer logs the error and replaces it with a short
// user-facing message.
type APIError struct {
	Kind   ErrorKind
	Status int // HTTP status, set for KindHTTP only
	URL    string
	Err    error
}

func (e *APIError) Error() string {
	if e.Kind == KindHTTP {
		return fmt.Sprintf("javbus api: %s %s: status %d", e.Kind, e.URL, e.Status)
	}
	return fmt.Sprintf("javbus api: %s %s: %v", e.Kind, e.URL, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// ErrStarNotFound is the normal (non-error) outcome of a star lookup that
// matched nothing. It is never wrapped in an APIError.
var ErrStarNotFound = errors.New("star not found")
