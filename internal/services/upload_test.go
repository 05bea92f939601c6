package services

import (
	"context"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventrsvp/internal/domain"
)

type fakeBlobStore struct {
	stored map[string][]byte
	err    error
}

func (f *fakeBlobStore) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.stored == nil {
		f.stored = map[string][]byte{}
	}
	f.stored[name] = data
	return "/uploads/events/" + name, nil
}

func TestUploadService_Store(t *testing.T) {
	ctx := context.Background()

	t.Run("stores an allowed image under a fresh name", func(t *testing.T) {
		store := &fakeBlobStore{}
		svc := NewUploadService(store)

		p, err := svc.Store(ctx, []byte("png-bytes"), "image/png", "poster.png")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(p, "/uploads/events/"))
		assert.Equal(t, ".png", path.Ext(p))
		assert.NotContains(t, p, "poster")
		require.Len(t, store.stored, 1)
	})

	t.Run("falls back to the content type extension", func(t *testing.T) {
		svc := NewUploadService(&fakeBlobStore{})
		p, err := svc.Store(ctx, []byte("jpeg-bytes"), "image/jpeg", "camera_upload")
		require.NoError(t, err)
		assert.Equal(t, ".jpg", path.Ext(p))
	})

	t.Run("discards an extension that disagrees with the content type", func(t *testing.T) {
		svc := NewUploadService(&fakeBlobStore{})
		p, err := svc.Store(ctx, []byte("<script>alert(1)</script>"), "image/png", "payload.html")
		require.NoError(t, err)
		assert.Equal(t, ".png", path.Ext(p))
	})

	t.Run("keeps .jpeg for a jpeg upload", func(t *testing.T) {
		svc := NewUploadService(&fakeBlobStore{})
		p, err := svc.Store(ctx, []byte("jpeg-bytes"), "image/jpeg", "photo.jpeg")
		require.NoError(t, err)
		assert.Equal(t, ".jpeg", path.Ext(p))
	})

	t.Run("rejects disallowed types", func(t *testing.T) {
		svc := NewUploadService(&fakeBlobStore{})
		for _, ct := range []string{"image/svg+xml", "application/pdf", "text/html", ""} {
			_, err := svc.Store(ctx, []byte("x"), ct, "f.bin")
			assert.ErrorIs(t, err, domain.ErrInvalidInput, "content type %q", ct)
		}
	})

	t.Run("rejects oversized and empty files", func(t *testing.T) {
		store := &fakeBlobStore{}
		svc := NewUploadService(store)

		_, err := svc.Store(ctx, make([]byte, MaxUploadSize+1), "image/png", "big.png")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = svc.Store(ctx, nil, "image/png", "empty.png")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		assert.Empty(t, store.stored)
	})

	t.Run("exactly at the ceiling is accepted", func(t *testing.T) {
		svc := NewUploadService(&fakeBlobStore{})
		_, err := svc.Store(ctx, make([]byte, MaxUploadSize), "image/webp", "just-fits.webp")
		require.NoError(t, err)
	})
}
