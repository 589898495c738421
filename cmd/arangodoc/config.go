package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/arangodoc"
)

const defaultConfigName = ".arangodoc.yaml"

// cliConfig is the connection profile shared by every command.
type cliConfig struct {
	Endpoint  string        `mapstructure:"endpoint"`
	Database  string        `mapstructure:"database"`
	Username  string        `mapstructure:"username"`
	Password  string        `mapstructure:"password"`
	Token     string        `mapstructure:"token"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// loadConfigFile reads a profile. The format follows the extension.
func loadConfigFile(path string) (cliConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cliConfig{}, err
	}

	raw := map[string]interface{}{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	case ".json":
		err = json.Unmarshal(data, &raw)
	default:
		return cliConfig{}, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return cliConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}

	return decodeConfig(raw)
}

func decodeConfig(raw map[string]interface{}) (cliConfig, error) {
	var cfg cliConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return cliConfig{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return cliConfig{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// resolveConfig merges the config file with the flags set on cmd.
// An explicit --config must exist; the default file is optional.
func resolveConfig(cmd *cobra.Command, path string) (cliConfig, error) {
	var cfg cliConfig

	explicit := path != ""
	if !explicit {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, defaultConfigName)
		}
	}
	if path != "" {
		fileCfg, err := loadConfigFile(path)
		switch {
		case err == nil:
			cfg = fileCfg
			slog.Debug("config loaded", "path", path)
		case !explicit && errors.Is(err, fs.ErrNotExist):
		default:
			return cliConfig{}, err
		}
	}

	override := func(name string, dst *string) {
		if f := cmd.Flag(name); f != nil && (f.Changed || *dst == "") {
			*dst = f.Value.String()
		}
	}
	override("endpoint", &cfg.Endpoint)
	override("database", &cfg.Database)
	override("user", &cfg.Username)
	override("password", &cfg.Password)
	override("token", &cfg.Token)
	if f := cmd.Flag("timeout"); f != nil && (f.Changed || cfg.Timeout == 0) {
		d, err := time.ParseDuration(f.Value.String())
		if err != nil {
			return cliConfig{}, fmt.Errorf("invalid --timeout: %w", err)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}

// clientOptions turns a profile into library options.
func clientOptions(cfg cliConfig) ([]arangodoc.Option, error) {
	opts := []arangodoc.Option{
		arangodoc.WithDatabase(cfg.Database),
		arangodoc.WithTimeout(cfg.Timeout),
		arangodoc.WithLogger(slog.Default()),
	}
	if cfg.UserAgent != "" {
		opts = append(opts, arangodoc.WithUserAgent(cfg.UserAgent))
	}

	switch {
	case cfg.Token != "":
		opts = append(opts, arangodoc.WithBearerToken(cfg.Token))
	case cfg.Username != "":
		password := cfg.Password
		if password == "" {
			p, err := promptPassword(cfg.Username)
			if err != nil {
				return nil, err
			}
			password = p
		}
		opts = append(opts, arangodoc.WithBasicAuth(cfg.Username, password))
	}
	return opts, nil
}

// promptPassword asks on the terminal. Without one it yields an empty password.
func promptPassword(user string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", nil
	}
	fmt.Fprintf(os.Stderr, "Password for %s: ", user)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// openCollection binds the named collection with the resolved profile.
func openCollection(name string) (*arangodoc.Collection[map[string]any], error) {
	opts, err := clientOptions(settings)
	if err != nil {
		return nil, err
	}
	return arangodoc.Open[map[string]any](settings.Endpoint, name, opts...)
}
