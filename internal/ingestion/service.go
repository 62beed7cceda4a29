package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cyderes/page-content-ingestion/internal/config"
	"github.com/cyderes/page-content-ingestion/internal/models"
	"github.com/cyderes/page-content-ingestion/internal/monitoring"
	"github.com/cyderes/page-content-ingestion/internal/observability"
	"github.com/cyderes/page-content-ingestion/internal/pages"
	"github.com/cyderes/page-content-ingestion/internal/source"
	"github.com/cyderes/page-content-ingestion/internal/storage"
)

// Service runs the page ingestion pipeline: read the page list, fetch posts
// per page, print a sample of each page and store the whole dataset.
type Service struct {
	config  config.IngestionConfig
	source  source.PostSource
	storage storage.Storage
	printer *observability.Printer
	metrics *monitoring.Metrics
	logger  *slog.Logger
}

// Result summarizes a completed run
type Result struct {
	RunID          uuid.UUID
	PagesProcessed int
	PagesSkipped   int
	Posts          []models.Post
}

// NewService creates a new ingestion service
func NewService(cfg config.IngestionConfig, src source.PostSource, store storage.Storage, printer *observability.Printer, metrics *monitoring.Metrics, logger *slog.Logger) *Service {
	return &Service{
		config:  cfg,
		source:  src,
		storage: store,
		printer: printer,
		metrics: metrics,
		logger:  logger,
	}
}

// Run ingests every page listed in the CSV file at inputPath
func (s *Service) Run(ctx context.Context, inputPath string) (*Result, error) {
	s.logger.Info("reading page list", "path", inputPath)
	entries, err := pages.Load(inputPath)
	if err != nil {
		return nil, err
	}

	if checker, ok := s.source.(source.Availability); ok {
		if err := checker.Available(ctx); err != nil {
			return nil, err
		}
	}

	status := models.IngestionStatus{
		RunID:       uuid.New(),
		Source:      s.source.Name(),
		LastAttempt: time.Now().UTC(),
		Status:      models.StatusRunning,
	}
	if err := s.storage.UpdateIngestionStatus(ctx, status); err != nil {
		return nil, fmt.Errorf("failed to update ingestion status: %w", err)
	}

	result, err := s.IngestPages(ctx, entries)
	if err == nil {
		err = s.store(ctx, result.Posts)
	}
	if err != nil {
		s.finish(ctx, status, result, err)
		return nil, err
	}

	result.RunID = status.RunID
	s.finish(ctx, status, result, nil)
	return result, nil
}

// IngestPages fetches posts for each entry in order. Entries without a page
// URL are skipped with a warning.
func (s *Service) IngestPages(ctx context.Context, entries []models.PageEntry) (*Result, error) {
	result := &Result{Posts: []models.Post{}}

	for _, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		url := strings.TrimSpace(entry.PublicPageURL)
		if pages.IsMissing(url) {
			s.logger.Warn("no URL for page; skipping", "name", name)
			s.metrics.IncPagesSkipped()
			result.PagesSkipped++
			continue
		}

		s.logger.Info("processing page", "name", name, "url", url)
		posts, err := s.source.Fetch(ctx, name, url, s.config.PostsPerPage)
		if err != nil {
			return result, fmt.Errorf("failed to fetch posts for %s: %w", name, err)
		}
		s.metrics.IncPagesProcessed()
		s.metrics.AddPosts(s.source.Name(), len(posts))
		result.PagesProcessed++

		// Only the first post of each page is shown
		if len(posts) > 0 {
			if err := s.printer.PrintSample(posts[0]); err != nil {
				return result, err
			}
		}

		result.Posts = append(result.Posts, posts...)
	}

	if len(result.Posts) == 0 {
		s.logger.Warn("no posts were generated; check the input file")
	}

	return result, nil
}

func (s *Service) store(ctx context.Context, posts []models.Post) error {
	if err := s.storage.StorePosts(ctx, posts); err != nil {
		return fmt.Errorf("failed to store posts: %w", err)
	}

	attrs := []any{"rows", len(posts)}
	if loc, ok := s.storage.(storage.Locator); ok {
		attrs = append(attrs, "path", loc.Location())
	}
	s.logger.Info("exported posts", attrs...)
	return nil
}

func (s *Service) finish(ctx context.Context, status models.IngestionStatus, result *Result, runErr error) {
	if result != nil {
		status.PagesProcessed = result.PagesProcessed
		status.PagesSkipped = result.PagesSkipped
	}

	if runErr != nil {
		status.Status = models.StatusFailure
		status.ErrorMessage = runErr.Error()
	} else {
		status.Status = models.StatusSuccess
		status.LastSuccessfulRun = time.Now().UTC()
		status.RecordsIngested = len(result.Posts)
	}
	s.metrics.IncRuns(status.Status)

	if err := s.storage.UpdateIngestionStatus(ctx, status); err != nil {
		s.logger.Error("failed to update ingestion status", "error", err)
	}
}
