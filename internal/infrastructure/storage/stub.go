// Package storage provides object storage implementations for file operations.
package storage

import (
	"context"
	"errors"
	"time"

	catalogapp "github.com/boutique/backend/internal/application/catalog"
	orderapp "github.com/boutique/backend/internal/application/order"
)

// StubObjectStorage is a development stand-in for a real object store. The
// URLs it hands out point nowhere; use it until S3/MinIO is configured.
type StubObjectStorage struct {
	// BaseURL prefixes generated URLs. Defaults to
	// "https://storage.example.com".
	BaseURL string
}

// NewStubObjectStorage creates a stub with the default base URL.
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.example.com",
	}
}

var (
	_ catalogapp.ObjectStorageService = (*StubObjectStorage)(nil)
	_ orderapp.ProofStorage           = (*StubObjectStorage)(nil)
)

// GenerateUploadURL fabricates an upload URL under BaseURL.
func (s *StubObjectStorage) GenerateUploadURL(
	ctx context.Context,
	storageKey, contentType string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	url := s.BaseURL + "/upload/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339)

	return url, expiresAt, nil
}

// GenerateDownloadURL fabricates a download URL under BaseURL.
func (s *StubObjectStorage) GenerateDownloadURL(
	ctx context.Context,
	storageKey string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	url := s.BaseURL + "/download/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339)

	return url, expiresAt, nil
}

// DeleteObject succeeds without doing anything.
func (s *StubObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	return nil
}

// ObjectExists claims every key exists so the upload-confirmation flow
// works without a real backend.
func (s *StubObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}
	return true, nil
}
