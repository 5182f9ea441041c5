package storage

import (
	"context"
	"time"
)

// DefaultPresignedURLExpiry applies when a caller passes a non-positive expiry.
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage keeps exported session plans and hands out temporary download links.
type FileStorage interface {
	// PutObject stores body under objectKey. metadata becomes object user metadata.
	PutObject(ctx context.Context, objectKey, contentType string, body []byte, metadata map[string]string) error

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)
}
