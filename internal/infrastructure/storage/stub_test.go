package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStubObjectStorage(t *testing.T) {
	s := NewStubObjectStorage()
	require.NotNil(t, s)
	assert.Equal(t, "https://storage.example.com", s.BaseURL)
}

func TestStubObjectStorage_GenerateUploadURL(t *testing.T) {
	s := NewStubObjectStorage()
	ctx := context.Background()

	t.Run("builds an upload URL under the base", func(t *testing.T) {
		url, expiresAt, err := s.GenerateUploadURL(ctx, "products/images/dress.jpg", "image/jpeg", 15*time.Minute)
		require.NoError(t, err)
		assert.Contains(t, url, "https://storage.example.com/upload/products/images/dress.jpg")
		assert.True(t, expiresAt.After(time.Now()))
	})

	t.Run("rejects an empty key", func(t *testing.T) {
		_, _, err := s.GenerateUploadURL(ctx, "", "image/jpeg", 15*time.Minute)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage key is required")
	})
}

func TestStubObjectStorage_GenerateDownloadURL(t *testing.T) {
	s := NewStubObjectStorage()
	ctx := context.Background()

	t.Run("builds a download URL under the base", func(t *testing.T) {
		url, expiresAt, err := s.GenerateDownloadURL(ctx, "proofs/order-42.png", time.Hour)
		require.NoError(t, err)
		assert.Contains(t, url, "https://storage.example.com/download/proofs/order-42.png")
		assert.True(t, expiresAt.After(time.Now()))
	})

	t.Run("rejects an empty key", func(t *testing.T) {
		_, _, err := s.GenerateDownloadURL(ctx, "", time.Hour)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage key is required")
	})
}

func TestStubObjectStorage_DeleteObject(t *testing.T) {
	s := NewStubObjectStorage()
	ctx := context.Background()

	require.NoError(t, s.DeleteObject(ctx, "proofs/order-42.png"))

	err := s.DeleteObject(ctx, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage key is required")
}

func TestStubObjectStorage_ObjectExists(t *testing.T) {
	s := NewStubObjectStorage()
	ctx := context.Background()

	t.Run("claims every valid key exists", func(t *testing.T) {
		exists, err := s.ObjectExists(ctx, "proofs/order-42.png")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("rejects an empty key", func(t *testing.T) {
		exists, err := s.ObjectExists(ctx, "")
		require.Error(t, err)
		assert.False(t, exists)
		assert.Contains(t, err.Error(), "storage key is required")
	})
}
