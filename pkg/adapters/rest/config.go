package rest

import (
	"log/slog"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config holds the settings of an HTTP session.
type Config struct {
	// Username and Password enable HTTP basic authentication.
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`

	// Token is sent as a bearer token. It excludes basic authentication.
	Token string `mapstructure:"token"`

	// Timeout bounds each round trip. Zero means no timeout.
	Timeout time.Duration `mapstructure:"timeout"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `mapstructure:"user_agent"`

	// Client replaces the default HTTP client. Timeout is ignored when set.
	Client *http.Client `mapstructure:"-"`

	Logger *slog.Logger `mapstructure:"-"`
}

// Validate checks that the configuration is consistent.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.Password,
			validation.When(c.Username == "", validation.Empty.Error("requires a username"))),
		validation.Field(&c.Token,
			validation.When(c.Username != "", validation.Empty.Error("cannot be combined with basic authentication"))),
	)
}

func (c Config) authMode() string {
	switch {
	case c.Token != "":
		return "bearer"
	case c.Username != "":
		return "basic"
	default:
		return "none"
	}
}
