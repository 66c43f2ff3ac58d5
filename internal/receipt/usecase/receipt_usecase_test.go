package usecase

import (
	"context"
	"errors"
	"testing"

	"disposal-backend/pkg/ai"

	"go.uber.org/zap"
)

type stubScanner struct {
	gotMime string
}

func (s *stubScanner) ScanReceipt(ctx context.Context, image []byte, mimeType string) ([]ai.ReceiptItem, error) {
	s.gotMime = mimeType
	return []ai.ReceiptItem{{Name: "Milk", Category: "dairy", Quantity: 1, DisposalDays: 7}}, nil
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n0000")

func TestScan_ValidatesInput(t *testing.T) {
	uc := NewReceiptUsecase(&stubScanner{}, 1, zap.NewNop())
	ctx := context.Background()

	if _, err := uc.Scan(ctx, nil, "image/png"); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("expected ErrEmptyImage, got %v", err)
	}
	if _, err := uc.Scan(ctx, make([]byte, 2<<20), "image/png"); !errors.Is(err, ErrImageTooLarge) {
		t.Errorf("expected ErrImageTooLarge, got %v", err)
	}
	if _, err := uc.Scan(ctx, []byte("%PDF-1.4"), "application/pdf"); !errors.Is(err, ErrUnsupportedImage) {
		t.Errorf("expected ErrUnsupportedImage, got %v", err)
	}
}

func TestScan_NormalizesMime(t *testing.T) {
	scanner := &stubScanner{}
	uc := NewReceiptUsecase(scanner, 1, zap.NewNop())

	items, err := uc.Scan(context.Background(), pngHeader, "application/octet-stream")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scanner.gotMime != "image/png" || len(items) != 1 {
		t.Errorf("expected sniffed image/png, got %q", scanner.gotMime)
	}

	if _, err := uc.Scan(context.Background(), []byte("jpeg"), "Image/JPG"); err != nil || scanner.gotMime != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %q (%v)", scanner.gotMime, err)
	}
}

func TestScan_NoProvider(t *testing.T) {
	uc := NewReceiptUsecase(nil, 1, zap.NewNop())
	if _, err := uc.Scan(context.Background(), pngHeader, "image/png"); !errors.Is(err, ai.ErrNoProvider) {
		t.Errorf("expected ErrNoProvider, got %v", err)
	}
}
