package storage

import (
	"context"
	"sync"

	"github.com/cyderes/page-content-ingestion/internal/models"
)

// MemoryStorage implements Storage interface in process memory
type MemoryStorage struct {
	mu     sync.RWMutex
	posts  []models.Post
	byID   map[string]int
	status *models.IngestionStatus
}

// NewMemoryStorage creates an empty memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{byID: make(map[string]int)}
}

// StorePosts appends posts. Lookups by ID return the first stored post
// with that ID.
func (m *MemoryStorage) StorePosts(ctx context.Context, posts []models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, post := range posts {
		if _, ok := m.byID[post.PostID]; !ok {
			m.byID[post.PostID] = len(m.posts)
		}
		m.posts = append(m.posts, post)
	}
	return nil
}

// GetPosts retrieves posts in insertion order with pagination
func (m *MemoryStorage) GetPosts(ctx context.Context, limit int, offset int) ([]models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return paginate(m.posts, limit, offset), nil
}

// GetPostByID retrieves a specific post by ID
func (m *MemoryStorage) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.byID[id]
	if !ok {
		return nil, nil // Post not found
	}
	post := m.posts[i]
	return &post, nil
}

// UpdateIngestionStatus updates the ingestion status
func (m *MemoryStorage) UpdateIngestionStatus(ctx context.Context, status models.IngestionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = &status
	return nil
}

// GetIngestionStatus retrieves the current ingestion status
func (m *MemoryStorage) GetIngestionStatus(ctx context.Context) (*models.IngestionStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.status == nil {
		return neverRun(), nil
	}
	status := *m.status
	return &status, nil
}

// Close releases nothing
func (m *MemoryStorage) Close() error {
	return nil
}
