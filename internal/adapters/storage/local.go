package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"eventrsvp/internal/domain"
)

type localBlobStore struct {
	dir        string
	publicBase string
}

// NewLocalBlobStore returns a BlobStore that writes files under dir and
// reports paths rooted at publicBase (e.g. "/uploads/events"). The directory
// is created on first use.
func NewLocalBlobStore(dir, publicBase string) domain.BlobStore {
	return &localBlobStore{
		dir:        dir,
		publicBase: strings.TrimSuffix(publicBase, "/"),
	}
}

func (s *localBlobStore) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	// Reject anything that could escape the upload directory.
	if name != filepath.Base(name) || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid object name %q", name)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return s.publicBase + "/" + name, nil
}
