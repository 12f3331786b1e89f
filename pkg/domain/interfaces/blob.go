package interfaces

import (
	"context"
	"io"
)

// BlobStore holds attachment bytes keyed by an opaque blob key
type BlobStore interface {
	// Put stores a blob
	Put(ctx context.Context, key string, r io.Reader) error

	// Get opens a blob for reading; the caller closes the reader
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a blob. Deleting an absent blob is not an error.
	Delete(ctx context.Context, key string) error
}
