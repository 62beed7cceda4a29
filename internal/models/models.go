package models

import (
	"time"

	"github.com/google/uuid"
)

// PageEntry represents one row of the input page list
type PageEntry struct {
	Name          string
	Party         string
	PublicPageURL string
}

// Post represents a single page post as returned by a post source
type Post struct {
	PageName       string `json:"page_name"`
	PageURL        string `json:"page_url"`
	PageIDAlias    string `json:"page_id_alias"`
	PostID         string `json:"post_id"`
	CreatedTime    string `json:"created_time"`
	Message        string `json:"message"`
	PermalinkURL   string `json:"permalink_url"`
	ReactionsCount int    `json:"reactions_count"`
	CommentsCount  int    `json:"comments_count"`
	SharesCount    int    `json:"shares_count"`
}

// PostSample is the API-response shaped subset of a Post printed for inspection
type PostSample struct {
	ID             string `json:"id"`
	Message        string `json:"message"`
	CreatedTime    string `json:"created_time"`
	PermalinkURL   string `json:"permalink_url"`
	CommentsCount  int    `json:"comments_count"`
	ReactionsCount int    `json:"reactions_count"`
	SharesCount    int    `json:"shares_count"`
}

// Sample returns the API-response shaped subset of the post
func (p Post) Sample() PostSample {
	return PostSample{
		ID:             p.PostID,
		Message:        p.Message,
		CreatedTime:    p.CreatedTime,
		PermalinkURL:   p.PermalinkURL,
		CommentsCount:  p.CommentsCount,
		ReactionsCount: p.ReactionsCount,
		SharesCount:    p.SharesCount,
	}
}

// Ingestion status values
const (
	StatusNeverRun = "never_run"
	StatusRunning  = "running"
	StatusSuccess  = "success"
	StatusFailure  = "failure"
)

// IngestionStatus tracks the status of ingestion runs
type IngestionStatus struct {
	RunID             uuid.UUID `json:"run_id"`
	Source            string    `json:"source"`
	LastSuccessfulRun time.Time `json:"last_successful_run"`
	LastAttempt       time.Time `json:"last_attempt"`
	Status            string    `json:"status"` // "success", "failure", "running"
	ErrorMessage      string    `json:"error_message,omitempty"`
	PagesProcessed    int       `json:"pages_processed"`
	PagesSkipped      int       `json:"pages_skipped"`
	RecordsIngested   int       `json:"records_ingested"`
}
