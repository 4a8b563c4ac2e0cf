package catalog

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/boutique/backend/internal/domain/shared"
)

// ObjectStorageService abstracts presigned object storage operations
type ObjectStorageService interface {
	// GenerateUploadURL creates a presigned URL for uploading an object
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	// GenerateDownloadURL creates a presigned URL for downloading an object
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	// DeleteObject removes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error
	// ObjectExists checks whether an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// AttachmentService issues presigned upload URLs for product images
type AttachmentService struct {
	storage   ObjectStorageService
	expiresIn time.Duration
	logger    *zap.Logger
}

// NewAttachmentService creates a new attachment service
func NewAttachmentService(storage ObjectStorageService, expiresIn time.Duration, logger *zap.Logger) *AttachmentService {
	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttachmentService{
		storage:   storage,
		expiresIn: expiresIn,
		logger:    logger,
	}
}

// UploadTicket grants a client a time-limited upload destination
type UploadTicket struct {
	StorageKey string    `json:"storage_key"`
	UploadURL  string    `json:"upload_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// RequestImageUpload issues an upload ticket for a product image
func (s *AttachmentService) RequestImageUpload(ctx context.Context, productID uuid.UUID, contentType string) (*UploadTicket, error) {
	ext, ok := allowedImageTypes[strings.ToLower(contentType)]
	if !ok {
		return nil, shared.NewDomainError("UNSUPPORTED_MEDIA_TYPE", "Only JPEG, PNG and WebP images are accepted")
	}

	storageKey := path.Join("products", productID.String(), fmt.Sprintf("%s%s", uuid.NewString(), ext))
	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, storageKey, contentType, s.expiresIn)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Issued image upload ticket",
		zap.String("product_id", productID.String()),
		zap.String("storage_key", storageKey))

	return &UploadTicket{
		StorageKey: storageKey,
		UploadURL:  uploadURL,
		ExpiresAt:  expiresAt,
	}, nil
}

// ResolveImageURL returns a presigned download URL for a stored image
func (s *AttachmentService) ResolveImageURL(ctx context.Context, storageKey string) (string, error) {
	exists, err := s.storage.ObjectExists(ctx, storageKey)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", shared.ErrNotFound
	}
	url, _, err := s.storage.GenerateDownloadURL(ctx, storageKey, s.expiresIn)
	return url, err
}

// RemoveImage deletes a stored image object
func (s *AttachmentService) RemoveImage(ctx context.Context, storageKey string) error {
	return s.storage.DeleteObject(ctx, storageKey)
}
