package storage

import (
	"context"
	"io"
)

// UploadResult describes an object after a successful upload.
type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader stores rendered artifacts, such as standings exports, in an
// object store and resolves their public URLs.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}
