package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyderes/page-content-ingestion/internal/config"
	"github.com/cyderes/page-content-ingestion/internal/models"
)

func testPosts() []models.Post {
	return []models.Post{
		{
			PageName:       "Ana Gómez",
			PageURL:        "https://www.facebook.com/AnaGomezOficial",
			PageIDAlias:    "AnaGomezOficial",
			PostID:         "AnaGomezOficial_20250910120000",
			CreatedTime:    "2025-09-10T12:00:00+0000",
			Message:        "Declaración respecto a salud.",
			PermalinkURL:   "https://www.facebook.com/AnaGomezOficial/posts/AnaGomezOficial_20250910120000",
			ReactionsCount: 120,
			CommentsCount:  33,
			SharesCount:    0,
		},
		{
			PageName:       "Ana Gómez",
			PageURL:        "https://www.facebook.com/AnaGomezOficial",
			PageIDAlias:    "AnaGomezOficial",
			PostID:         "AnaGomezOficial_20250910060000",
			CreatedTime:    "2025-09-10T06:00:00+0000",
			Message:        "Resumen semanal: avances en economía, con \"comillas\".",
			PermalinkURL:   "https://www.facebook.com/AnaGomezOficial/posts/AnaGomezOficial_20250910060000",
			ReactionsCount: 300,
			CommentsCount:  5,
			SharesCount:    40,
		},
	}
}

func TestNewStorage(t *testing.T) {
	store, err := NewStorage(config.StorageConfig{Type: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStorage{}, store)

	store, err = NewStorage(config.StorageConfig{Type: "csv", Path: filepath.Join(t.TempDir(), "out.csv")})
	require.NoError(t, err)
	assert.IsType(t, &CSVStorage{}, store)

	store, err = NewStorage(config.StorageConfig{Type: "dynamodb"})
	assert.Nil(t, store)
	assert.EqualError(t, err, "unsupported storage type: dynamodb")
}

func TestCSVStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "output_posts.csv")
	store, err := NewCSVStorage(path)
	require.NoError(t, err)

	require.NoError(t, store.StorePosts(ctx, testPosts()))

	posts, err := store.GetPosts(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, testPosts(), posts)

	post, err := store.GetPostByID(ctx, "AnaGomezOficial_20250910060000")
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, 40, post.SharesCount)

	missing, err := store.GetPostByID(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "page_name,page_url,page_id_alias,post_id,created_time,message,permalink_url,reactions_count,comments_count,shares_count", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Ana Gómez,https://www.facebook.com/AnaGomezOficial,AnaGomezOficial,"))
}

func TestCSVStorage_EmptyDatasetWritesHeader(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "empty.csv")
	store, err := NewCSVStorage(path)
	require.NoError(t, err)

	require.NoError(t, store.StorePosts(ctx, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(Columns, ",")+"\n", string(data))

	posts, err := store.GetPosts(ctx, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestCSVStorage_ReplacesFileAndLeavesNoTemp(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0644))

	store, err := NewCSVStorage(path)
	require.NoError(t, err)
	require.NoError(t, store.StorePosts(ctx, testPosts()[:1]))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.csv", entries[0].Name())

	posts, err := store.GetPosts(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestCSVStorage_MissingDirectory(t *testing.T) {
	store, err := NewCSVStorage(filepath.Join(t.TempDir(), "no", "such", "dir", "out.csv"))
	require.NoError(t, err)

	err = store.StorePosts(context.Background(), testPosts())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create temporary file")
}

func TestCSVStorage_MissingFileHasNoPosts(t *testing.T) {
	store, err := NewCSVStorage(filepath.Join(t.TempDir(), "later.csv"))
	require.NoError(t, err)

	posts, err := store.GetPosts(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestCSVStorage_Location(t *testing.T) {
	store, err := NewCSVStorage("relative.csv")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(store.Location()))
	assert.Equal(t, "relative.csv", filepath.Base(store.Location()))
}

func TestMemoryStorage_Pagination(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	require.NoError(t, store.StorePosts(ctx, testPosts()))

	posts, err := store.GetPosts(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "AnaGomezOficial_20250910120000", posts[0].PostID)

	posts, err = store.GetPosts(ctx, 10, 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "AnaGomezOficial_20250910060000", posts[0].PostID)

	posts, err = store.GetPosts(ctx, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestMemoryStorage_GetPostByID(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	require.NoError(t, store.StorePosts(ctx, testPosts()))

	post, err := store.GetPostByID(ctx, "AnaGomezOficial_20250910120000")
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, 120, post.ReactionsCount)

	post, err = store.GetPostByID(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, post)
}

func TestIngestionStatus(t *testing.T) {
	ctx := context.Background()
	csvStore, err := NewCSVStorage(filepath.Join(t.TempDir(), "out.csv"))
	require.NoError(t, err)

	for name, store := range map[string]Storage{"memory": NewMemoryStorage(), "csv": csvStore} {
		t.Run(name, func(t *testing.T) {
			status, err := store.GetIngestionStatus(ctx)
			require.NoError(t, err)
			assert.Equal(t, models.StatusNeverRun, status.Status)

			want := models.IngestionStatus{
				RunID:           uuid.New(),
				Source:          "simulated",
				LastAttempt:     time.Now().UTC(),
				Status:          models.StatusSuccess,
				RecordsIngested: 2,
			}
			require.NoError(t, store.UpdateIngestionStatus(ctx, want))

			got, err := store.GetIngestionStatus(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, *got)
			assert.NoError(t, store.Close())
		})
	}
}
