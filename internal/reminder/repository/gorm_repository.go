package repository

import (
	"context"
	"disposal-backend/internal/reminder/domain"
	"time"

	"gorm.io/gorm"
)

// gormReminderRepository implements ReminderRepository using GORM
type gormReminderRepository struct {
	db *gorm.DB
}

// NewGormReminderRepository creates a new GORM-based ReminderRepository
func NewGormReminderRepository(db *gorm.DB) ReminderRepository {
	return &gormReminderRepository{db: db}
}

func (r *gormReminderRepository) FindDueBefore(ctx context.Context, threshold time.Time) ([]*domain.Reminder, error) {
	var reminders []*domain.Reminder
	err := r.db.WithContext(ctx).
		Where("due_date <= ?", threshold).
		Order("due_date ASC").
		Find(&reminders).Error
	return reminders, err
}

func (r *gormReminderRepository) FindByItemID(ctx context.Context, itemID string, limit int) ([]*domain.Reminder, error) {
	var reminders []*domain.Reminder
	query := r.db.WithContext(ctx).Where("item_id = ?", itemID)
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&reminders).Error
	return reminders, err
}

func (r *gormReminderRepository) FindItemByID(ctx context.Context, itemID string) (*domain.Item, error) {
	var item domain.Item
	err := r.db.WithContext(ctx).Where("id = ?", itemID).First(&item).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *gormReminderRepository) BackfillOwner(ctx context.Context, reminderID, itemID, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := tx.Model(&domain.Item{}).Where("id = ?", itemID).
			Update("user_id", userID)
		if items.Error != nil {
			return items.Error
		}
		if items.RowsAffected == 0 {
			return ErrItemNotFound
		}
		res := tx.Model(&domain.Reminder{}).Where("id = ?", reminderID).
			Update("user_id", userID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrReminderNotFound
		}
		return nil
	})
}

func (r *gormReminderRepository) MarkNotificationSent(ctx context.Context, reminderID string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&domain.Reminder{}).Where("id = ?", reminderID).
		Update("last_notification_sent", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrReminderNotFound
	}
	return nil
}

func (r *gormReminderRepository) Delete(ctx context.Context, reminderID string) error {
	return r.db.WithContext(ctx).Delete(&domain.Reminder{}, "id = ?", reminderID).Error
}

func (r *gormReminderRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
