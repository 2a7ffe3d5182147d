package domain

import (
	"errors"
	"fmt"
)

// ErrUnsupportedContext is returned when the source cannot be fetched with HTTP semantics.
var ErrUnsupportedContext = errors.New("unsupported execution context")

// ManifestError is raised when the manifest is unreachable or unparsable.
type ManifestError struct {
	Err error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("failed to load posts.json: %v", e.Err)
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}

// PostFetchError is raised when a selected post is unreachable or not found.
type PostFetchError struct {
	ID  string
	Err error
}

// Error returns the user-facing text. Missing posts read "Post not found".
func (e *PostFetchError) Error() string {
	if errors.Is(e.Err, ErrNotFound) {
		return "Post not found"
	}
	return e.Err.Error()
}

func (e *PostFetchError) Unwrap() error {
	return e.Err
}
