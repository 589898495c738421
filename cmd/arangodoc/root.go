package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/arangodoc"
)

var (
	verbose    bool
	configPath string
	settings   cliConfig
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "arangodoc",
	Short: "Single-document client for ArangoDB-style document servers",
	Long: `arangodoc creates, reads, updates, replaces and removes single documents
over the HTTP document API, with revision checks and overwrite policies.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)

		cfg, err := resolveConfig(cmd, configPath)
		if err != nil {
			return err
		}
		settings = cfg
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode lets scripts tell the common outcomes apart.
func exitCode(err error) int {
	switch {
	case errors.Is(err, arangodoc.ErrNotFound):
		return 2
	case errors.Is(err, arangodoc.ErrPreconditionFailed):
		return 3
	case errors.Is(err, arangodoc.ErrNotModified):
		return 4
	default:
		return 1
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&configPath, "config", "", "Config file (.yaml, .toml or .json; default ~/.arangodoc.yaml)")
	flags.StringP("endpoint", "e", arangodoc.DefaultEndpoint, "Server endpoint")
	flags.StringP("database", "d", arangodoc.DefaultDatabase, "Database name")
	flags.StringP("user", "u", "", "Username for basic authentication")
	flags.StringP("password", "p", "", "Password for basic authentication (prompted when omitted on a terminal)")
	flags.String("token", "", "Bearer token")
	flags.Duration("timeout", 30*time.Second, "Timeout of each request")
}
