package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/cyderes/page-content-ingestion/internal/config"
	"github.com/cyderes/page-content-ingestion/internal/models"
)

// ErrUnsupportedMode is returned by sources that are not implemented yet.
var ErrUnsupportedMode = errors.New("real mode is not implemented; use --mock")

// RemoteAPISource is the placeholder for the page content API client. It
// carries the connection settings but does not call the API.
type RemoteAPISource struct {
	config config.RemoteAPIConfig
}

// NewRemoteAPISource creates a remote API source
func NewRemoteAPISource(cfg config.RemoteAPIConfig) *RemoteAPISource {
	return &RemoteAPISource{config: cfg}
}

// Name returns "remote_api"
func (s *RemoteAPISource) Name() string {
	return "remote_api"
}

// Available always reports ErrUnsupportedMode. Invalid connection settings
// are included in the message.
func (s *RemoteAPISource) Available(ctx context.Context) error {
	if err := s.config.Validate(); err != nil {
		return fmt.Errorf("%w (%v)", ErrUnsupportedMode, err)
	}
	return fmt.Errorf("%w (endpoint %s/%s)", ErrUnsupportedMode, s.config.BaseURL, s.config.Version)
}

// Fetch always fails with ErrUnsupportedMode.
func (s *RemoteAPISource) Fetch(ctx context.Context, pageName, pageURL string, count int) ([]models.Post, error) {
	return nil, s.Available(ctx)
}
