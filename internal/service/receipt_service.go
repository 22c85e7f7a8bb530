package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"github.com/outgo-app/outgo-backend/internal/domain"
	"github.com/outgo-app/outgo-backend/internal/repository/storage"
)

const (
	MaxReceiptSize     = 5 * 1024 * 1024 // 5MB
	ReceiptThumbWidth  = 200
	ReceiptJPEGQuality = 85
	ReceiptURLExpiry   = 15 * time.Minute
)

var (
	ErrReceiptTooLarge             = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidReceiptFormat        = errors.New("invalid format. Supported: JPEG, PNG, GIF")
	ErrInvalidReceiptData          = errors.New("invalid image data")
	ErrReceiptStorageNotConfigured = errors.New("receipt storage not configured")
)

// allowedReceiptExtensions maps extensions to content types
var allowedReceiptExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// ReceiptService handles receipt image validation, processing, and storage
type ReceiptService struct {
	expenseRepo domain.ExpenseRepository
	storage     storage.ReceiptRepository
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(expenseRepo domain.ExpenseRepository, storage storage.ReceiptRepository) *ReceiptService {
	return &ReceiptService{
		expenseRepo: expenseRepo,
		storage:     storage,
	}
}

// IsEnabled indicates whether uploads are supported (storage configured)
func (s *ReceiptService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// validateAndDecode validates the receipt image and returns the decoded
// image plus its content type
func validateAndDecode(data []byte, filename string) (image.Image, string, error) {
	if len(data) > MaxReceiptSize {
		return nil, "", ErrReceiptTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := allowedReceiptExtensions[ext]
	if !ok {
		return nil, "", ErrInvalidReceiptFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", ErrInvalidReceiptData
	}

	return img, contentType, nil
}

// UploadReceipt validates the image, stores the original plus a thumbnail,
// and records the original's object path on the expense. A previously
// attached receipt is replaced.
func (s *ReceiptService) UploadReceipt(ctx context.Context, ownerID int32, expenseID int32, data []byte, filename string) (*domain.Expense, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptStorageNotConfigured
	}

	// Verify the expense exists and belongs to the owner
	expense, err := s.expenseRepo.GetByID(ownerID, expenseID)
	if err != nil {
		return nil, err
	}

	img, contentType, err := validateAndDecode(data, filename)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))

	// Original, stored as-is
	originalPath := storage.GenerateObjectPath(ownerID, expenseID, "original", ext)
	if _, err := s.storage.Upload(ctx, originalPath, bytes.NewReader(data), contentType, int64(len(data))); err != nil {
		return nil, fmt.Errorf("failed to upload receipt: %w", err)
	}

	// Thumbnail, re-encoded as JPEG
	thumb := img
	if img.Bounds().Dx() > ReceiptThumbWidth {
		thumb = imaging.Resize(img, ReceiptThumbWidth, 0, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: ReceiptJPEGQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	// The thumbnail shares the original's path stem so it can be derived later
	if _, err := s.storage.Upload(ctx, thumbPathFor(originalPath), bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len())); err != nil {
		// Best effort cleanup of the original
		_ = s.storage.Delete(ctx, originalPath)
		return nil, fmt.Errorf("failed to upload thumbnail: %w", err)
	}

	// Replace any previous receipt
	if expense.ReceiptRef != nil {
		s.deleteVariants(ctx, *expense.ReceiptRef)
	}

	return s.expenseRepo.SetReceiptRef(ownerID, expenseID, originalPath)
}

// ReceiptURLs carries presigned GET URLs for a receipt's variants
type ReceiptURLs struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// GetReceiptURLs returns short-lived presigned URLs for an expense's receipt
func (s *ReceiptService) GetReceiptURLs(ctx context.Context, ownerID int32, expenseID int32) (*ReceiptURLs, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptStorageNotConfigured
	}

	expense, err := s.expenseRepo.GetByID(ownerID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.ReceiptRef == nil {
		return nil, domain.ErrReceiptNotFound
	}

	originalPath := *expense.ReceiptRef
	url, err := s.storage.GeneratePresignedURL(ctx, originalPath, ReceiptURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign receipt URL: %w", err)
	}

	thumbURL, err := s.storage.GeneratePresignedURL(ctx, thumbPathFor(originalPath), ReceiptURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign thumbnail URL: %w", err)
	}

	return &ReceiptURLs{URL: url, ThumbnailURL: thumbURL}, nil
}

// DeleteReceipt removes an expense's receipt objects. Called when the
// expense itself is deleted; missing storage is a no-op.
func (s *ReceiptService) DeleteReceipt(ctx context.Context, ownerID int32, expenseID int32) error {
	if !s.IsEnabled() {
		return nil
	}

	expense, err := s.expenseRepo.GetByID(ownerID, expenseID)
	if err != nil {
		return err
	}
	if expense.ReceiptRef == nil {
		return nil
	}

	s.deleteVariants(ctx, *expense.ReceiptRef)
	return nil
}

// deleteVariants removes the original and thumbnail objects, best effort
func (s *ReceiptService) deleteVariants(ctx context.Context, originalPath string) {
	_ = s.storage.Delete(ctx, originalPath)
	_ = s.storage.Delete(ctx, thumbPathFor(originalPath))
}

// thumbPathFor derives the thumbnail object path from the original's path
func thumbPathFor(originalPath string) string {
	ext := filepath.Ext(originalPath)
	base := strings.TrimSuffix(originalPath, ext)
	base = strings.TrimSuffix(base, "_original")
	return base + "_thumb.jpg"
}
