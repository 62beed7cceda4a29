// Package source provides the post sources the ingestion pipeline can read from.
package source

import (
	"context"

	"github.com/cyderes/page-content-ingestion/internal/config"
	"github.com/cyderes/page-content-ingestion/internal/models"
)

// PostSource returns the most recent posts of a public page
type PostSource interface {
	// Fetch returns up to count posts for the page, newest first.
	Fetch(ctx context.Context, pageName, pageURL string, count int) ([]models.Post, error)
	// Name identifies the source in logs and run status.
	Name() string
}

// Availability is implemented by sources that can tell up front whether
// they are able to serve requests.
type Availability interface {
	Available(ctx context.Context) error
}

// New returns the simulated source in mock mode and the remote API source
// otherwise.
func New(mock bool, cfg config.RemoteAPIConfig) PostSource {
	if mock {
		return NewSimulatedSource()
	}
	return NewRemoteAPISource(cfg)
}
