package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cyderes/page-content-ingestion/internal/config"
	"github.com/cyderes/page-content-ingestion/internal/server"
)

func newServeCmd(opts *options, stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve <input.csv>",
		Short: "Ingest the page list and serve the posts over HTTP",
		Long: "Runs the same pipeline as the root command into memory and exposes the result " +
			"read-only on /posts, /posts/{id}, /status, /health and /metrics.",
		Args: exactlyOneInput,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts, args[0], stdout)
		},
	}

	cmd.Flags().IntVar(&opts.port, "port", 8080, "Port to listen on (defaults to SERVER_PORT)")

	return cmd
}

func runServe(cmd *cobra.Command, opts *options, input string, stdout io.Writer) error {
	cfg, err := loadConfig(opts, config.StorageConfig{Type: "memory"})
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = opts.port
		if err := cfg.Server.Validate(); err != nil {
			return usageError{err: err}
		}
	} else if err := cfg.Server.Validate(); err != nil {
		return fmt.Errorf("%w (check SERVER_PORT)", err)
	}

	p, err := newPipeline(cfg, stdout)
	if err != nil {
		return err
	}
	defer p.storage.Close()

	if _, err := p.service.Run(cmd.Context(), input); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpServer := server.NewServer(cfg.Server, p.storage, p.registry, p.logger)
	errCh := make(chan error, 1)
	go func() {
		p.logger.Info("starting HTTP server", "port", cfg.Server.Port)
		errCh <- httpServer.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
	}

	p.logger.Info("shutdown signal received, shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}
	return nil
}
