// Package cli wires the command-line surface to the ingestion pipeline.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/cyderes/page-content-ingestion/internal/config"
	"github.com/cyderes/page-content-ingestion/internal/ingestion"
	"github.com/cyderes/page-content-ingestion/internal/logging"
	"github.com/cyderes/page-content-ingestion/internal/monitoring"
	"github.com/cyderes/page-content-ingestion/internal/observability"
	"github.com/cyderes/page-content-ingestion/internal/pages"
	"github.com/cyderes/page-content-ingestion/internal/source"
	"github.com/cyderes/page-content-ingestion/internal/storage"
)

// Process exit codes
const (
	ExitOK              = 0
	ExitInputNotFound   = 1
	ExitSchemaMismatch  = 2
	ExitUnsupportedMode = 3
	ExitFailure         = 1
	ExitUsage           = 2
)

// usageError marks bad command-line input
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

type options struct {
	mock    bool
	perPage int
	out     string
	port    int
}

// Execute runs the command line in args and returns the process exit code
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitCode(err)
	}
	return ExitOK
}

// ExitCode maps a run error to the process exit code
func ExitCode(err error) int {
	var usage usageError
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, pages.ErrInputNotFound):
		return ExitInputNotFound
	case errors.Is(err, pages.ErrSchemaMismatch):
		return ExitSchemaMismatch
	case errors.Is(err, source.ErrUnsupportedMode):
		return ExitUnsupportedMode
	case errors.As(err, &usage):
		return ExitUsage
	default:
		return ExitFailure
	}
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "page-posts <input.csv>",
		Short: "Collect public page posts into a CSV file",
		Long: "Reads a CSV with columns Nombre, Partido and Pagina_publica, fetches the latest posts of " +
			"every public page, prints one sample post per page and writes all posts to a CSV file.\n\n" +
			"Only --mock mode is available: posts are generated deterministically instead of being " +
			"read from the content API.\n\n" +
			"An input file named like a subcommand (serve, help) must be passed after --, " +
			"for example: page-posts --mock -- serve",
		Args:          exactlyOneInput,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd.Context(), opts, args[0], stdout)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	root.PersistentFlags().BoolVar(&opts.mock, "mock", false, "Use simulated posts instead of the content API")
	root.PersistentFlags().IntVar(&opts.perPage, "per_page", config.DefaultPostsPerPage, "Posts per page")
	root.Flags().StringVar(&opts.out, "out", config.DefaultOutputPath, "Output CSV file")

	root.AddCommand(newServeCmd(opts, stdout))

	return root
}

func exactlyOneInput(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return usageError{err: fmt.Errorf("expected exactly one input CSV path, got %d", len(args))}
	}
	return nil
}

func loadConfig(opts *options, storageCfg config.StorageConfig) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg.Ingestion.Mock = opts.mock
	cfg.Ingestion.PostsPerPage = opts.perPage
	cfg.Storage = storageCfg

	if err := cfg.ValidateRun(); err != nil {
		return nil, usageError{err: err}
	}
	// Environment problems are not usage errors and map to ExitFailure.
	if err := cfg.Log.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// pipeline bundles a configured service with the pieces callers need after a run
type pipeline struct {
	service  *ingestion.Service
	storage  storage.Storage
	registry *prometheus.Registry
	logger   *slog.Logger
}

func newPipeline(cfg *config.Config, stdout io.Writer) (*pipeline, error) {
	logger := logging.New(stdout, cfg.Log)

	store, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	registry := prometheus.NewRegistry()
	service := ingestion.NewService(
		cfg.Ingestion,
		source.New(cfg.Ingestion.Mock, cfg.RemoteAPI),
		store,
		observability.NewPrinter(stdout),
		monitoring.NewMetrics(registry),
		logger,
	)

	return &pipeline{service: service, storage: store, registry: registry, logger: logger}, nil
}

func runPipeline(ctx context.Context, opts *options, input string, stdout io.Writer) error {
	cfg, err := loadConfig(opts, config.StorageConfig{Type: "csv", Path: opts.out})
	if err != nil {
		return err
	}

	p, err := newPipeline(cfg, stdout)
	if err != nil {
		return err
	}
	defer p.storage.Close()

	result, err := p.service.Run(ctx, input)
	if err != nil {
		return err
	}

	p.logger.Info("run complete", "run_id", result.RunID, "pages", result.PagesProcessed, "skipped", result.PagesSkipped)
	return nil
}
