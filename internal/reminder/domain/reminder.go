package domain

import "time"

// ReminderStatus represents where a reminder is in its lifecycle
type ReminderStatus string

const (
	ReminderStatusUpcoming  ReminderStatus = "upcoming"
	ReminderStatusOverdue   ReminderStatus = "overdue"
	ReminderStatusCompleted ReminderStatus = "completed"
)

// Actionable reports whether a reminder in this status may still be notified
func (s ReminderStatus) Actionable() bool {
	return s == ReminderStatusUpcoming || s == ReminderStatusOverdue
}

// Reminder is a scheduled disposal-due record tied to an Item and a user.
// UserID is empty on legacy records and is backfilled by the dispatcher.
type Reminder struct {
	ID                   string         `json:"id" firestore:"-" gorm:"primaryKey"`
	ItemID               string         `json:"itemId" firestore:"itemId" gorm:"column:item_id;index"`
	ItemName             string         `json:"itemName" firestore:"itemName" gorm:"column:item_name"`
	Category             string         `json:"category" firestore:"category"`
	UserID               string         `json:"userId" firestore:"userId" gorm:"column:user_id;index"`
	DueDate              time.Time      `json:"dueDate" firestore:"dueDate" gorm:"column:due_date;index"`
	Status               ReminderStatus `json:"status" firestore:"status" gorm:"default:upcoming"`
	CreatedAt            time.Time      `json:"createdAt" firestore:"createdAt"`
	LastNotificationSent *time.Time     `json:"lastNotificationSent,omitempty" firestore:"lastNotificationSent" gorm:"column:last_notification_sent"`
}

// NotifiedWithin reports whether the last notification for this reminder was
// sent less than window before now.
func (r *Reminder) NotifiedWithin(now time.Time, window time.Duration) bool {
	if r.LastNotificationSent == nil {
		return false
	}
	return now.Sub(*r.LastNotificationSent) < window
}
