package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Every failure returned by the client matches exactly one of
// them through errors.Is.
var (
	// ErrTransport is a network or I/O failure below the protocol.
	ErrTransport = errors.New("transport failure")
	// ErrCanceled is a transport call aborted by context cancellation or deadline.
	ErrCanceled = errors.New("request canceled")
	// ErrMalformedResponse is a response that matches no expected shape.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrPreconditionFailed is a revision mismatch (HTTP 412).
	ErrPreconditionFailed = errors.New("precondition failed")
	// ErrNotFound is a missing document (HTTP 404).
	ErrNotFound = errors.New("document not found")
	// ErrNotModified is an If-None-Match hit on read (HTTP 304).
	ErrNotModified = errors.New("document not modified")
	// ErrServer is any other structured failure reported by the server.
	ErrServer = errors.New("server error")
	// ErrSerialization is a payload that could not be encoded or decoded against the caller's type.
	ErrSerialization = errors.New("serialization failure")
)

// ServerError is a structured failure reported by the server.
type ServerError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// Code is the "code" attribute of the error envelope.
	Code int
	// ErrorNum is the server-specific error number (e.g. 1202 document not found).
	ErrorNum int
	Message  string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d (errorNum %d): %s", e.StatusCode, e.ErrorNum, e.Message)
}

// Is maps the status code onto the error kinds.
func (e *ServerError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusPreconditionFailed:
		return target == ErrPreconditionFailed
	case http.StatusNotFound:
		return target == ErrNotFound
	default:
		return target == ErrServer
	}
}

// IsConflict reports whether err is a revision mismatch.
func IsConflict(err error) bool {
	return errors.Is(err, ErrPreconditionFailed)
}

// IsNotFound reports whether err is a missing document.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// TransportError tags a failed session call as ErrCanceled when ctx ended
// or err is a context error, and as ErrTransport otherwise. Errors already
// tagged with either kind are returned unchanged.
func TransportError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ErrCanceled), errors.Is(err, ErrTransport):
		return err
	case ctx.Err() != nil, errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrCanceled, err)
	default:
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
}
