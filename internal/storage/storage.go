// Package storage abstracts the blob store holding registration documents and
// organization logos.
package storage

import (
	"context"
	"io"
)

// Store is the narrow blob interface the review engines depend on. Two
// logical buckets exist: documents and logos.
type Store interface {
	Put(ctx context.Context, bucket, path string, body io.Reader, contentType string) (string, error)
	Download(ctx context.Context, bucket, path string) ([]byte, error)
	Remove(ctx context.Context, bucket string, paths []string) error
	PublicURL(bucket, path string) string
}
