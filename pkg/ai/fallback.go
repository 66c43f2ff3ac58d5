package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"go.uber.org/zap"
)

// NamedScanner pairs a provider with the name used in logs
type NamedScanner struct {
	Name    string
	Scanner ReceiptScanner
}

// FallbackService tries providers in order and moves on when one fails.
// Quota and connection errors are expected and logged at warn; anything
// else is logged as an error before falling through.
type FallbackService struct {
	providers []NamedScanner
	logger    *zap.Logger
}

// NewFallbackService creates a fallback chain over providers
func NewFallbackService(logger *zap.Logger, providers ...NamedScanner) *FallbackService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackService{
		providers: providers,
		logger:    logger.With(zap.String("component", "ai_fallback")),
	}
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	connectionIndicators := []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"eof",
	}
	for _, indicator := range connectionIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	quotaIndicators := []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource exhausted",
		"resource_exhausted",
	}
	for _, indicator := range quotaIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

// ScanReceipt returns the first successful provider result
func (f *FallbackService) ScanReceipt(ctx context.Context, image []byte, mimeType string) ([]ReceiptItem, error) {
	var errs []error
	for _, p := range f.providers {
		items, err := p.Scanner.ScanReceipt(ctx, image, mimeType)
		if err == nil {
			f.logger.Debug("receipt scanned", zap.String("provider", p.Name), zap.Int("items", len(items)))
			return items, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		switch {
		case isQuotaError(err):
			f.logger.Warn("provider quota exhausted, falling back", zap.String("provider", p.Name), zap.Error(err))
		case isConnectionError(err):
			f.logger.Warn("provider unreachable, falling back", zap.String("provider", p.Name), zap.Error(err))
		default:
			f.logger.Error("provider failed, falling back", zap.String("provider", p.Name), zap.Error(err))
		}
		errs = append(errs, fmt.Errorf("%s: %w", p.Name, err))
	}

	if len(errs) == 0 {
		return nil, ErrNoProvider
	}
	return nil, fmt.Errorf("%w: %w", ErrNoProvider, errors.Join(errs...))
}
