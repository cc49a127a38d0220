package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/libretto/pkg/adapters/http"
	"github.com/aretw0/libretto/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Serves page validation and rendering as a JSON API, with Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.HTTPAddr, _ = cmd.Flags().GetString("addr")
		}

		ctx, stop := cli.WithSignals(cmd.Context())
		defer stop()

		stack, err := cli.NewStack(ctx, cfg)
		if err != nil {
			return err
		}
		defer stack.Close()

		handler := httpAdapter.NewHandler(stack.Engine,
			httpAdapter.WithRegistry(stack.Registry),
			httpAdapter.WithGatherer(stack.Metrics),
			httpAdapter.WithLogger(stack.Logger),
		)

		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			stack.Logger.Info("Starting libretto server", "address", srv.Addr, "store", cfg.Store)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			stack.Logger.Info("Shutting down", "signal", cli.Interrupted(ctx))

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				stack.Logger.Warn("Graceful shutdown did not complete", "error", err)
				return srv.Close()
			}
			stack.Logger.Info("Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on (overrides LIBRETTO_HTTP_ADDR)")
}
