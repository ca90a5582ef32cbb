package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed call.
type ErrorKind int

const (
	// KindTransport means no response was obtained (connection, DNS, TLS, timeout, cancellation).
	KindTransport ErrorKind = iota + 1
	// KindStatus means a response arrived with a status code that was neither success nor overridden.
	KindStatus
	// KindDecode means a success response body did not match the expected shape.
	KindDecode
)

// String returns the string representation of an ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is matching against *Error.
var (
	ErrTransport = errors.New("transport error")
	ErrStatus    = errors.New("unexpected status")
	ErrDecode    = errors.New("decode error")

	// ErrInvalidBaseURL is returned by NewClient for a structurally invalid base URL.
	ErrInvalidBaseURL = errors.New("invalid base URL")
)

// Error is the single failure type returned by every endpoint method.
type Error struct {
	Kind       ErrorKind
	Operation  string
	URL        string
	StatusCode int    // KindStatus only
	Body       string // KindStatus only, empty if unreadable
	Err        error
}

// Error implements the error interface
func (e *Error) Error() string {
	switch e.Kind {
	case KindTransport:
		return fmt.Sprintf("%s: request to %s failed: %v", e.Operation, e.URL, e.Err)
	case KindStatus:
		return fmt.Sprintf("%s: status %d from %s: %s", e.Operation, e.StatusCode, e.URL, e.Body)
	case KindDecode:
		return fmt.Sprintf("%s: failed to decode response from %s: %v", e.Operation, e.URL, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Operation, e.Err)
	}
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrStatus:
		return e.Kind == KindStatus
	case ErrDecode:
		return e.Kind == KindDecode
	}
	return false
}

// IsNotFound checks if the error is a 404 status error
func (e *Error) IsNotFound() bool {
	return e.Kind == KindStatus && e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *Error) IsUnauthorized() bool {
	return e.Kind == KindStatus && (e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// IsServerError checks if the remote side failed with a 5xx status
func (e *Error) IsServerError() bool {
	return e.Kind == KindStatus && e.StatusCode >= 500
}

func transportError(operation, url string, err error) *Error {
	return &Error{Kind: KindTransport, Operation: operation, URL: url, Err: err}
}

func statusError(operation, url string, code int, body string) *Error {
	return &Error{
		Kind:       KindStatus,
		Operation:  operation,
		URL:        url,
		StatusCode: code,
		Body:       body,
		Err:        fmt.Errorf("status %d", code),
	}
}

func decodeError(operation, url string, err error) *Error {
	return &Error{Kind: KindDecode, Operation: operation, URL: url, Err: err}
}

// DecodeError builds a Decode error; override resolvers use it when they parse a body themselves.
func DecodeError(operation string, resp *Response, err error) error {
	return decodeError(operation, resp.URL, err)
}
