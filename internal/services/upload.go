package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"eventrsvp/internal/domain"
)

// MaxUploadSize is the ceiling for event image uploads.
const MaxUploadSize = 5 * 1024 * 1024 // 5MB

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type uploadService struct {
	store domain.BlobStore
}

// NewUploadService returns an UploadService backed by the given blob store.
func NewUploadService(store domain.BlobStore) domain.UploadService {
	return &uploadService{store: store}
}

// Store validates the image against the MIME allow-list and size ceiling,
// then persists it under a fresh unique name. The original filename only
// contributes its extension, and only when it agrees with the content type.
func (s *uploadService) Store(ctx context.Context, data []byte, contentType, filename string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: no file provided", domain.ErrInvalidInput)
	}
	if len(data) > MaxUploadSize {
		return "", fmt.Errorf("%w: file too large", domain.ErrInvalidInput)
	}
	defaultExt, ok := allowedImageTypes[strings.ToLower(contentType)]
	if !ok {
		return "", fmt.Errorf("%w: invalid file type", domain.ErrInvalidInput)
	}

	// The stored extension must agree with the declared content type; the
	// upload directory is served directly, so a stray .html name would come
	// back with a text/html response.
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != defaultExt && !(ext == ".jpeg" && defaultExt == ".jpg") {
		ext = defaultExt
	}

	name := uuid.NewString() + ext
	path, err := s.store.Put(ctx, name, data, contentType)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return path, nil
}
