package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fintrack-app/fintrack-backend/internal/repository/storage"
	"github.com/google/uuid"

	// imaging registers JPEG/PNG decoders; WebP needs its own
	_ "golang.org/x/image/webp"
)

const (
	MaxReceiptSize   = 5 * 1024 * 1024 // 5MB
	MinReceiptWidth  = 50
	MinReceiptHeight = 50
	DisplayWidth     = 800
	JPEGQuality      = 85

	// PresignedURLExpiry bounds how long a fetched receipt link stays valid
	PresignedURLExpiry = 15 * time.Minute
)

var (
	ErrReceiptTooLarge          = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidReceiptFormat     = errors.New("invalid format. Supported: JPEG, PNG, WebP")
	ErrReceiptTooSmall          = errors.New("image too small. Minimum 50x50 pixels")
	ErrInvalidReceiptData       = errors.New("invalid image data")
	ErrReceiptStorageNotEnabled = errors.New("receipt storage not configured")
)

// allowedReceiptExtensions maps extensions to content types
var allowedReceiptExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ReceiptService validates, normalizes and stores receipt images attached
// to transactions.
type ReceiptService struct {
	storage storage.ObjectRepository
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(storage storage.ObjectRepository) *ReceiptService {
	return &ReceiptService{storage: storage}
}

// IsEnabled indicates whether uploads are supported (storage configured)
func (s *ReceiptService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// Upload validates the image, resizes it to display width, stores it and
// returns the stored object path.
func (s *ReceiptService) Upload(ctx context.Context, userID, transactionID uuid.UUID, data []byte, filename string) (string, error) {
	if !s.IsEnabled() {
		return "", ErrReceiptStorageNotEnabled
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return "", err
	}

	// Downscale only; small receipts pass through at native size
	if img.Bounds().Dx() > DisplayWidth {
		img = imaging.Resize(img, DisplayWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return "", fmt.Errorf("failed to encode receipt: %w", err)
	}

	objectPath := receiptObjectPath(userID, transactionID)
	return s.storage.Upload(ctx, objectPath, &buf, "image/jpeg", int64(buf.Len()))
}

// URL returns a short-lived presigned URL for a stored receipt
func (s *ReceiptService) URL(ctx context.Context, objectPath string) (string, error) {
	if !s.IsEnabled() {
		return "", ErrReceiptStorageNotEnabled
	}
	return s.storage.GeneratePresignedURL(ctx, objectPath, PresignedURLExpiry)
}

// Delete removes a stored receipt
func (s *ReceiptService) Delete(ctx context.Context, objectPath string) error {
	if !s.IsEnabled() {
		return ErrReceiptStorageNotEnabled
	}
	return s.storage.Delete(ctx, objectPath)
}

// validateAndDecode validates size, extension and dimensions and returns
// the decoded image
func (s *ReceiptService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxReceiptSize {
		return nil, ErrReceiptTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedReceiptExtensions[ext]; !ok {
		return nil, ErrInvalidReceiptFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidReceiptData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinReceiptWidth || bounds.Dy() < MinReceiptHeight {
		return nil, ErrReceiptTooSmall
	}

	return img, nil
}

func receiptObjectPath(userID, transactionID uuid.UUID) string {
	return fmt.Sprintf("%s/receipts/%s/%s.jpg", userID, transactionID, uuid.New())
}
