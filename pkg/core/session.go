package core

import (
	"context"
	"net/http"
)

// Request is one wire request: method, absolute URL, headers and body.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is the raw answer to a Request.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Session performs a single round trip. Implementations own connection
// handling and authentication and must be safe for concurrent use.
//
// A failed round trip returns an error wrapping ErrTransport, or ErrCanceled
// when ctx was canceled or its deadline passed.
type Session interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// SessionFunc adapts a function to the Session interface.
type SessionFunc func(ctx context.Context, req *Request) (*Response, error)

// Do calls f(ctx, req).
func (f SessionFunc) Do(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}
