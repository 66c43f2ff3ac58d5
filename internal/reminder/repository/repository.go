package repository

import (
	"context"
	"disposal-backend/internal/reminder/domain"
	"time"
)

// ReminderRepository defines the reminder and item operations the notification
// dispatcher needs from the document store
type ReminderRepository interface {
	// FindDueBefore returns every reminder whose due date is at or before threshold.
	// Only the due date is filtered in the store; status filtering happens in-process.
	FindDueBefore(ctx context.Context, threshold time.Time) ([]*domain.Reminder, error)

	// FindByItemID returns at most limit reminders that reference itemID
	FindByItemID(ctx context.Context, itemID string, limit int) ([]*domain.Reminder, error)

	// FindItemByID returns the item, or nil, nil when it does not exist
	FindItemByID(ctx context.Context, itemID string) (*domain.Item, error)

	// BackfillOwner writes userID onto both the item and the reminder in one batch
	BackfillOwner(ctx context.Context, reminderID, itemID, userID string) error

	// MarkNotificationSent records when a notification was last pushed for a reminder
	MarkNotificationSent(ctx context.Context, reminderID string, at time.Time) error

	// Delete removes a reminder by ID
	Delete(ctx context.Context, reminderID string) error

	// Ping verifies the store is reachable
	Ping(ctx context.Context) error
}
