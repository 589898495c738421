package platform

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/arangodoc/pkg/adapters/rest"
	"github.com/aretw0/arangodoc/pkg/collection"
	"github.com/aretw0/arangodoc/pkg/core"
)

// Open binds a typed collection on the server at endpoint.
//
//	users, err := arangodoc.Open[User]("http://localhost:8529", "users",
//		arangodoc.WithDatabase("app"), arangodoc.WithBasicAuth("root", ""))
func Open[T any](endpoint, name string, opts ...Option) (*collection.Collection[T], error) {
	o := buildOptions(opts)

	base, err := DocumentBaseURL(endpoint, o.database, name)
	if err != nil {
		return nil, err
	}

	session, err := newSession(o)
	if err != nil {
		return nil, err
	}

	if o.logger != nil {
		o.logger.Debug("collection opened", "collection", name, "database", o.database, "url", base)
	}

	return collection.New[T](session, name, base)
}

// NewSession builds the transport described by opts. Database options are ignored.
func NewSession(opts ...Option) (core.Session, error) {
	return newSession(buildOptions(opts))
}

func newSession(o *options) (core.Session, error) {
	// 1. Injected transport wins
	if o.session != nil {
		return o.session, nil
	}

	// 2. Decode the raw settings
	cfg, err := DecodeSessionConfig(o.config)
	if err != nil {
		return nil, err
	}
	cfg.Client = o.client
	cfg.Logger = o.logger

	// 3. Validate and build
	return rest.NewSession(cfg)
}

// DecodeSessionConfig decodes raw settings into a rest.Config. Durations may
// be time.Duration values, integers (nanoseconds) or strings such as "5s".
// Unknown keys are rejected.
func DecodeSessionConfig(values map[string]interface{}) (rest.Config, error) {
	var cfg rest.Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return rest.Config{}, err
	}
	if err := decoder.Decode(values); err != nil {
		return rest.Config{}, fmt.Errorf("decode session config: %w", err)
	}
	return cfg, nil
}
