package repository

import (
	"context"

	"disposal-backend/internal/device/domain"

	"gorm.io/gorm"
)

// gormDeviceTokenRepository implements DeviceTokenRepository interface
type gormDeviceTokenRepository struct {
	db *gorm.DB
}

// NewGormDeviceTokenRepository creates a new instance of gormDeviceTokenRepository
func NewGormDeviceTokenRepository(db *gorm.DB) DeviceTokenRepository {
	return &gormDeviceTokenRepository{
		db: db,
	}
}

// GetTokensByUserID returns all device tokens for a user
func (r *gormDeviceTokenRepository) GetTokensByUserID(ctx context.Context, userID string) ([]*domain.DeviceToken, error) {
	var tokens []*domain.DeviceToken
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// DeleteToken removes one of a user's token records
func (r *gormDeviceTokenRepository) DeleteToken(ctx context.Context, userID, tokenID string) error {
	return r.db.WithContext(ctx).Where("id = ? AND user_id = ?", tokenID, userID).Delete(&domain.DeviceToken{}).Error
}
