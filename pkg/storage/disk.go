// Package storage is the file store behind product image uploads.
//
// Two drivers are available:
//   - "local": a directory served under STORAGE_URL (default)
//   - "s3": S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// Boot once with storage.Connect(), then write through the default disk:
//
//	url, err := storage.Store(ctx, "products/"+name, file, "image/png")
package storage

import (
	"context"
	"io"
)

// Disk is the driver interface.
type Disk interface {
	// Put writes r to path, creating parent directories as needed.
	Put(ctx context.Context, path string, r io.Reader, contentType string) error

	// Get returns a reader for path. The caller closes it.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	Exists(ctx context.Context, path string) bool

	// Delete removes path. Missing files are not an error.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL for path.
	URL(path string) string
}
