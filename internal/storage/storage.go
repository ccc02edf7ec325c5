package storage

import (
	"context"
	"io"
	"time"
)

// Service stores car images in remote object storage.
type Service interface {
	// UploadImage writes the image under the service's key prefix and
	// returns the canonical object location (an s3:// URI).
	UploadImage(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	// ImageURL exchanges a stored object location for a URL presentation
	// code can render, valid for the given duration.
	ImageURL(ctx context.Context, location string, expires time.Duration) (string, error)
}
