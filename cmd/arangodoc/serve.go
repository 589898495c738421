package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/spf13/cobra"

	"github.com/aretw0/arangodoc/pkg/adapters/memory"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run an in-memory document server",
	Long: `Serve the document API from memory, for local development and tests.
Nothing is persisted; all data is lost when the process stops.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		logger := slog.Default()
		srv := &http.Server{
			Addr:              serveAddr,
			Handler:           memory.NewServer(memory.WithLogger(logger)),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		lifecycle.Go(ctx, func(ctx context.Context) error {
			err := srv.ListenAndServe()
			if errors.Is(err, http.ErrServerClosed) {
				err = nil
			}
			errCh <- err
			return err
		}, lifecycle.WithErrorHandler(func(err error) {
			logger.Error("server stopped", "error", err)
		}))

		logger.Info("serving documents from memory", "addr", serveAddr)
		fmt.Fprintf(cmd.OutOrStdout(), "listening on %s\n", serveAddr)

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8529", "Listen address")
}
