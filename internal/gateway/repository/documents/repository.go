// Package documents persists generated deliverables (the markdown BRD and
// its analysis payload) keyed by session and file path.
package documents

import (
	"context"
	"errors"
)

// Store defines operations for persisting generated documents.
type Store interface {
	Put(ctx context.Context, sessionID, path string, content []byte) error
	Get(ctx context.Context, sessionID, path string) ([]byte, error)
	GetURL(ctx context.Context, sessionID, path string) (string, error)
	List(ctx context.Context, sessionID string) ([]string, error)
}

var ErrNotFound = errors.New("document not found")
