package platform

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/arangodoc/pkg/core"
)

// DefaultDatabase is used when no database is configured.
const DefaultDatabase = "_system"

// options holds the internal configuration for a client.
type options struct {
	session  core.Session
	logger   *slog.Logger
	client   *http.Client
	database string
	config   map[string]interface{}
}

// Option defines a functional option for configuring a client.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		database: DefaultDatabase,
		config:   make(map[string]interface{}),
	}
}

func buildOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithDatabase selects the database the collection lives in.
// Defaults to "_system".
func WithDatabase(name string) Option {
	return func(o *options) {
		o.database = name
	}
}

// WithBasicAuth authenticates every request with HTTP basic auth.
func WithBasicAuth(username, password string) Option {
	return func(o *options) {
		o.config["username"] = username
		o.config["password"] = password
	}
}

// WithBearerToken authenticates every request with a bearer token (e.g. a JWT
// issued by the server). It cannot be combined with WithBasicAuth.
func WithBearerToken(token string) Option {
	return func(o *options) {
		o.config["token"] = token
	}
}

// WithTimeout bounds each round trip. Cancellation through the context
// passed to an operation works regardless.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.config["timeout"] = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.config["user_agent"] = ua
	}
}

// WithConfig merges raw settings, e.g. decoded from a config file.
// Known keys: username, password, token, timeout, user_agent.
// Durations may be given as strings ("5s").
func WithConfig(values map[string]interface{}) Option {
	return func(o *options) {
		for k, v := range values {
			o.config[k] = v
		}
	}
}

// WithHTTPClient replaces the HTTP client. WithTimeout is ignored when set.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSession allows injecting a custom transport (e.g. a mock or a
// pre-authenticated connection). Authentication, timeout and client
// options are skipped when it is set.
func WithSession(session core.Session) Option {
	return func(o *options) {
		o.session = session
	}
}
