package storage

import (
	"context"
	"fmt"

	"github.com/cyderes/page-content-ingestion/internal/config"
	"github.com/cyderes/page-content-ingestion/internal/models"
)

// Storage interface defines the contract for data storage
type Storage interface {
	StorePosts(ctx context.Context, posts []models.Post) error
	GetPosts(ctx context.Context, limit int, offset int) ([]models.Post, error)
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	UpdateIngestionStatus(ctx context.Context, status models.IngestionStatus) error
	GetIngestionStatus(ctx context.Context) (*models.IngestionStatus, error)
	Close() error
}

// Locator is implemented by storages backed by a file
type Locator interface {
	Location() string
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "csv":
		return NewCSVStorage(cfg.Path)
	case "memory":
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// paginate returns the window [offset, offset+limit) of posts
func paginate(posts []models.Post, limit, offset int) []models.Post {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(posts) || limit <= 0 {
		return []models.Post{}
	}
	end := min(offset+limit, len(posts))
	out := make([]models.Post, end-offset)
	copy(out, posts[offset:end])
	return out
}

func neverRun() *models.IngestionStatus {
	return &models.IngestionStatus{Status: models.StatusNeverRun}
}
