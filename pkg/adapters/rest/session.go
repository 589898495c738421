// Package rest implements core.Session over net/http.
//
// The session performs exactly one HTTP round trip per call. It does not
// retry, pool beyond what http.Client does, or negotiate authentication; a
// token obtained elsewhere can be passed in through Config.Token.
package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aretw0/introspection"

	"github.com/aretw0/arangodoc/pkg/core"
)

const defaultUserAgent = "arangodoc"

// Session is an HTTP implementation of core.Session. It is safe for concurrent use.
type Session struct {
	config Config
	client *http.Client
}

// NewSession validates cfg and builds a session.
func NewSession(cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session config: %w", err)
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Session{config: cfg, client: client}, nil
}

// Do performs one round trip.
func (s *Session) Do(ctx context.Context, req *core.Request) (*core.Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", core.ErrTransport, err)
	}
	for name, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(name, v)
		}
	}
	s.authorize(httpReq)

	start := time.Now()
	resp, err := s.client.Do(httpReq)
	if err != nil {
		s.debug("request failed", "method", req.Method, "url", req.URL, "error", err)
		return nil, classify(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(ctx, fmt.Errorf("read response body: %w", err))
	}

	s.debug("request completed",
		"method", req.Method,
		"url", req.URL,
		"status", resp.StatusCode,
		"bytes", len(data),
		"duration", time.Since(start),
	)

	return &core.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

func (s *Session) authorize(req *http.Request) {
	switch {
	case s.config.Token != "":
		req.Header.Set("Authorization", "Bearer "+s.config.Token)
	case s.config.Username != "":
		req.SetBasicAuth(s.config.Username, s.config.Password)
	}

	ua := s.config.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
}

func (s *Session) debug(msg string, args ...any) {
	if s.config.Logger != nil {
		s.config.Logger.Debug(msg, args...)
	}
}

// classify separates cancellation from other transport failures.
func classify(ctx context.Context, err error) error {
	return core.TransportError(ctx, err)
}

// SessionState exposes the session settings for observability.
type SessionState struct {
	Auth      string        `json:"auth"`
	Timeout   time.Duration `json:"timeout"`
	UserAgent string        `json:"user_agent,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Session) State() any {
	return SessionState{
		Auth:      s.config.authMode(),
		Timeout:   s.client.Timeout,
		UserAgent: s.config.UserAgent,
	}
}

// ComponentType implements introspection.Component.
func (s *Session) ComponentType() string {
	return "http-session"
}

var (
	_ core.Session                 = (*Session)(nil)
	_ introspection.Introspectable = (*Session)(nil)
	_ introspection.Component      = (*Session)(nil)
)
