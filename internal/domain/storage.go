package domain

import "context"

// BlobStore persists opaque binary objects (event images) and returns a
// publicly servable path.
type BlobStore interface {
	Put(ctx context.Context, name string, data []byte, contentType string) (path string, err error)
}

// UploadService validates and stores event images.
type UploadService interface {
	Store(ctx context.Context, data []byte, contentType, filename string) (path string, err error)
}
