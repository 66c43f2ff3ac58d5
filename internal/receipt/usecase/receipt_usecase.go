package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"disposal-backend/pkg/ai"

	"go.uber.org/zap"
)

var (
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrImageTooLarge    = errors.New("image too large")
	ErrEmptyImage       = errors.New("empty image")
)

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/heic": true,
}

// ReceiptUsecase turns a receipt photo into a list of purchased items.
// Nothing is stored; the client decides which items to keep.
type ReceiptUsecase interface {
	Scan(ctx context.Context, image []byte, mimeType string) ([]ai.ReceiptItem, error)
}

type receiptUsecase struct {
	scanner  ai.ReceiptScanner
	maxBytes int64
	logger   *zap.Logger
}

func NewReceiptUsecase(scanner ai.ReceiptScanner, maxUploadMB int, logger *zap.Logger) ReceiptUsecase {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &receiptUsecase{
		scanner:  scanner,
		maxBytes: int64(maxUploadMB) << 20,
		logger:   logger,
	}
}

func (u *receiptUsecase) Scan(ctx context.Context, image []byte, mimeType string) ([]ai.ReceiptItem, error) {
	if u.scanner == nil {
		return nil, ai.ErrNoProvider
	}
	if len(image) == 0 {
		return nil, ErrEmptyImage
	}
	if int64(len(image)) > u.maxBytes {
		return nil, ErrImageTooLarge
	}

	mimeType = normalizeMime(mimeType, image)
	if !allowedMimeTypes[mimeType] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, mimeType)
	}

	items, err := u.scanner.ScanReceipt(ctx, image, mimeType)
	if err != nil {
		return nil, fmt.Errorf("scan receipt: %w", err)
	}
	u.logger.Info("receipt scanned", zap.String("mime", mimeType), zap.Int("items", len(items)))
	return items, nil
}

// normalizeMime prefers the declared type and sniffs the bytes when the client
// sent nothing useful.
func normalizeMime(declared string, image []byte) string {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if i := strings.IndexByte(declared, ';'); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	if declared == "image/jpg" {
		declared = "image/jpeg"
	}
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return http.DetectContentType(image)
}
