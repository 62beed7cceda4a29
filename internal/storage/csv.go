package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/cyderes/page-content-ingestion/internal/models"
)

// Columns is the fixed column order of the output file
var Columns = []string{
	"page_name",
	"page_url",
	"page_id_alias",
	"post_id",
	"created_time",
	"message",
	"permalink_url",
	"reactions_count",
	"comments_count",
	"shares_count",
}

// CSVStorage implements Storage interface on a single CSV file. Each
// StorePosts call replaces the whole file.
type CSVStorage struct {
	path string

	mu     sync.Mutex
	status *models.IngestionStatus
}

// NewCSVStorage creates a CSV storage writing to path
func NewCSVStorage(path string) (*CSVStorage, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output path: %w", err)
	}
	return &CSVStorage{path: abs}, nil
}

// Location returns the absolute path of the output file
func (c *CSVStorage) Location() string {
	return c.path
}

// StorePosts writes posts to a temporary file next to the target and
// renames it into place, so readers never see a partial file.
func (c *CSVStorage) StorePosts(ctx context.Context, posts []models.Post) error {
	tmp, err := os.CreateTemp(filepath.Dir(c.path), "."+filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if err := writePosts(tmp, posts); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to set output permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move output into place: %w", err)
	}

	return nil
}

func writePosts(w io.Writer, posts []models.Post) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, post := range posts {
		if err := writer.Write(encodePost(post)); err != nil {
			return fmt.Errorf("failed to write post %s: %w", post.PostID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}

// GetPosts reads the file back with pagination. A missing file holds no posts.
func (c *CSVStorage) GetPosts(ctx context.Context, limit int, offset int) ([]models.Post, error) {
	posts, err := c.readAll()
	if err != nil {
		return nil, err
	}
	return paginate(posts, limit, offset), nil
}

// GetPostByID retrieves a specific post by ID
func (c *CSVStorage) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	posts, err := c.readAll()
	if err != nil {
		return nil, err
	}

	for i := range posts {
		if posts[i].PostID == id {
			return &posts[i], nil
		}
	}
	return nil, nil // Post not found
}

func (c *CSVStorage) readAll() ([]models.Post, error) {
	f, err := os.Open(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.Post{}, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", c.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(Columns)

	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return []models.Post{}, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	posts := []models.Post{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read post: %w", err)
		}

		post, err := decodePost(record)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	return posts, nil
}

// UpdateIngestionStatus updates the ingestion status. The file only holds
// posts, so the status lives in memory.
func (c *CSVStorage) UpdateIngestionStatus(ctx context.Context, status models.IngestionStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = &status
	return nil
}

// GetIngestionStatus retrieves the current ingestion status
func (c *CSVStorage) GetIngestionStatus(ctx context.Context) (*models.IngestionStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == nil {
		return neverRun(), nil
	}
	status := *c.status
	return &status, nil
}

// Close has nothing to release; files are opened per call
func (c *CSVStorage) Close() error {
	return nil
}

func encodePost(p models.Post) []string {
	return []string{
		p.PageName,
		p.PageURL,
		p.PageIDAlias,
		p.PostID,
		p.CreatedTime,
		p.Message,
		p.PermalinkURL,
		strconv.Itoa(p.ReactionsCount),
		strconv.Itoa(p.CommentsCount),
		strconv.Itoa(p.SharesCount),
	}
}

func decodePost(record []string) (models.Post, error) {
	counts := make([]int, 3)
	for i, raw := range record[7:10] {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return models.Post{}, fmt.Errorf("invalid %s %q: %w", Columns[7+i], raw, err)
		}
		counts[i] = n
	}

	return models.Post{
		PageName:       record[0],
		PageURL:        record[1],
		PageIDAlias:    record[2],
		PostID:         record[3],
		CreatedTime:    record[4],
		Message:        record[5],
		PermalinkURL:   record[6],
		ReactionsCount: counts[0],
		CommentsCount:  counts[1],
		SharesCount:    counts[2],
	}, nil
}
