package repository

import (
	"context"

	"disposal-backend/internal/device/domain"
)

// DeviceTokenRepository defines the device token operations used for push delivery.
// Tokens are registered elsewhere; this side only reads and prunes them.
type DeviceTokenRepository interface {
	GetTokensByUserID(ctx context.Context, userID string) ([]*domain.DeviceToken, error)
	DeleteToken(ctx context.Context, userID, tokenID string) error
}
