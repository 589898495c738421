package arangodoc

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/arangodoc/internal/platform"
	"github.com/aretw0/arangodoc/pkg/collection"
	"github.com/aretw0/arangodoc/pkg/core"
)

// Version exposes the version of the library.
// See version.go for the implementation using go:embed.

// --- Types ---

// Collection is a public alias for the typed collection client.
type Collection[T any] = collection.Collection[T]

// Document is a public alias for a typed document.
type Document[T any] = core.Document[T]

// DocumentHeader is a public alias for the system attributes of a document.
type DocumentHeader = core.DocumentHeader

// DocumentResponse is a public alias for the result of a write.
type DocumentResponse[T any] = core.DocumentResponse[T]

// Silent is the result of a write made with the silent option.
type Silent[T any] = core.Silent[T]

// Verbose is the result of a write that returned a body.
type Verbose[T any] = core.Verbose[T]

// Session is a public alias for the transport port.
type Session = core.Session

type (
	InsertOptions  = core.InsertOptions
	UpdateOptions  = core.UpdateOptions
	ReplaceOptions = core.ReplaceOptions
	RemoveOptions  = core.RemoveOptions
	ReadOptions    = core.ReadOptions
	IfMatch        = core.IfMatch
	IfNoneMatch    = core.IfNoneMatch
	OverwriteMode  = core.OverwriteMode
	Toggle         = core.Toggle
)

const (
	OverwriteConflict = core.OverwriteConflict
	OverwriteIgnore   = core.OverwriteIgnore
	OverwriteReplace  = core.OverwriteReplace
	OverwriteUpdate   = core.OverwriteUpdate

	ToggleDefault = core.ToggleDefault
	ToggleOn      = core.ToggleOn
	ToggleOff     = core.ToggleOff
)

// --- Errors ---

var (
	ErrTransport          = core.ErrTransport
	ErrCanceled           = core.ErrCanceled
	ErrMalformedResponse  = core.ErrMalformedResponse
	ErrPreconditionFailed = core.ErrPreconditionFailed
	ErrNotFound           = core.ErrNotFound
	ErrNotModified        = core.ErrNotModified
	ErrServer             = core.ErrServer
	ErrSerialization      = core.ErrSerialization
)

// ServerError is a structured failure reported by the server.
type ServerError = core.ServerError

// --- Configuration ---

const (
	DefaultEndpoint = platform.DefaultEndpoint
	DefaultDatabase = platform.DefaultDatabase
)

// Option defines a functional option for configuring a client.
type Option = platform.Option

// WithDatabase selects the database. Defaults to "_system".
func WithDatabase(name string) Option {
	return platform.WithDatabase(name)
}

// WithBasicAuth authenticates with HTTP basic auth.
func WithBasicAuth(username, password string) Option {
	return platform.WithBasicAuth(username, password)
}

// WithBearerToken authenticates with a bearer token.
func WithBearerToken(token string) Option {
	return platform.WithBearerToken(token)
}

// WithTimeout bounds each round trip.
func WithTimeout(d time.Duration) Option {
	return platform.WithTimeout(d)
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return platform.WithUserAgent(ua)
}

// WithConfig merges raw settings, e.g. decoded from a config file.
func WithConfig(values map[string]interface{}) Option {
	return platform.WithConfig(values)
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return platform.WithHTTPClient(client)
}

// WithLogger sets the logger for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithSession allows injecting a custom transport.
func WithSession(session Session) Option {
	return platform.WithSession(session)
}

// --- Factory ---

// Open binds a typed collection on the server at endpoint.
func Open[T any](endpoint, name string, opts ...Option) (*Collection[T], error) {
	return platform.Open[T](endpoint, name, opts...)
}

// NewSession builds the transport described by opts.
func NewSession(opts ...Option) (Session, error) {
	return platform.NewSession(opts...)
}

// NewCollection binds a typed collection to an existing session.
// baseURL is the collection's document endpoint; see DocumentBaseURL.
func NewCollection[T any](session Session, name, baseURL string) (*Collection[T], error) {
	return collection.New[T](session, name, baseURL)
}

// DocumentBaseURL builds <endpoint>/_db/<database>/_api/document/<collection>/.
func DocumentBaseURL(endpoint, database, name string) (string, error) {
	return platform.DocumentBaseURL(endpoint, database, name)
}

// --- Documents ---

// NewDocument wraps data in a document without a key; the server assigns one.
func NewDocument[T any](data T) Document[T] {
	return core.NewDocument(data)
}

// NewDocumentWithKey wraps data in a document with a caller-chosen key.
func NewDocumentWithKey[T any](key string, data T) Document[T] {
	return core.NewDocumentWithKey(key, data)
}

// ParseOverwriteMode maps "conflict", "ignore", "replace" or "update" to a mode.
// The empty string is the server default, OverwriteConflict.
func ParseOverwriteMode(s string) (OverwriteMode, error) {
	return core.ParseOverwriteMode(s)
}

// ToggleOf converts a plain bool into an explicit Toggle.
func ToggleOf(enabled bool) Toggle {
	return core.ToggleOf(enabled)
}
