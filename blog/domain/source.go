package domain

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Fetcher when the requested resource does not exist
// or the backend answered with a not-ok status.
var ErrNotFound = errors.New("resource not found")

// Fetcher defines the interface for retrieving raw post resources (e.g., over HTTP or from GitHub).
// Paths are relative to the posts directory, so "posts.json" is the manifest.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}
