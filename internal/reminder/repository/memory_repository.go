package repository

import (
	"context"
	"disposal-backend/internal/reminder/domain"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryReminderRepository is an in-process ReminderRepository. It backs the
// "memory" store driver and the dispatcher tests.
type MemoryReminderRepository struct {
	mu        sync.RWMutex
	reminders map[string]*domain.Reminder
	items     map[string]*domain.Item
}

// NewMemoryReminderRepository creates an empty in-memory store
func NewMemoryReminderRepository() *MemoryReminderRepository {
	return &MemoryReminderRepository{
		reminders: make(map[string]*domain.Reminder),
		items:     make(map[string]*domain.Item),
	}
}

// SaveReminder inserts or replaces a reminder, assigning an ID when empty
func (r *MemoryReminderRepository) SaveReminder(reminder *domain.Reminder) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reminder.ID == "" {
		reminder.ID = uuid.New().String()
	}
	if reminder.CreatedAt.IsZero() {
		reminder.CreatedAt = time.Now()
	}
	r.reminders[reminder.ID] = copyReminder(reminder)
	return reminder.ID
}

// SaveItem inserts or replaces an item, assigning an ID when empty
func (r *MemoryReminderRepository) SaveItem(item *domain.Item) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	cp := *item
	r.items[item.ID] = &cp
	return item.ID
}

// GetReminder returns a copy of the stored reminder, or nil
func (r *MemoryReminderRepository) GetReminder(id string) *domain.Reminder {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if rem, ok := r.reminders[id]; ok {
		return copyReminder(rem)
	}
	return nil
}

// GetItem returns a copy of the stored item, or nil
func (r *MemoryReminderRepository) GetItem(id string) *domain.Item {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if item, ok := r.items[id]; ok {
		cp := *item
		return &cp
	}
	return nil
}

func (r *MemoryReminderRepository) FindDueBefore(ctx context.Context, threshold time.Time) ([]*domain.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Reminder
	for _, rem := range r.reminders {
		if !rem.DueDate.After(threshold) {
			out = append(out, copyReminder(rem))
		}
	}
	sortByDueDate(out)
	return out, nil
}

func (r *MemoryReminderRepository) FindByItemID(ctx context.Context, itemID string, limit int) ([]*domain.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Reminder
	for _, rem := range r.reminders {
		if rem.ItemID == itemID {
			out = append(out, copyReminder(rem))
		}
	}
	sortByDueDate(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryReminderRepository) FindItemByID(ctx context.Context, itemID string) (*domain.Item, error) {
	return r.GetItem(itemID), nil
}

func (r *MemoryReminderRepository) BackfillOwner(ctx context.Context, reminderID, itemID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[itemID]
	if !ok {
		return ErrItemNotFound
	}
	rem, ok := r.reminders[reminderID]
	if !ok {
		return ErrReminderNotFound
	}
	item.UserID = userID
	rem.UserID = userID
	return nil
}

func (r *MemoryReminderRepository) MarkNotificationSent(ctx context.Context, reminderID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rem, ok := r.reminders[reminderID]
	if !ok {
		return ErrReminderNotFound
	}
	sent := at
	rem.LastNotificationSent = &sent
	return nil
}

func (r *MemoryReminderRepository) Delete(ctx context.Context, reminderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reminders, reminderID)
	return nil
}

func (r *MemoryReminderRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func copyReminder(src *domain.Reminder) *domain.Reminder {
	cp := *src
	if src.LastNotificationSent != nil {
		sent := *src.LastNotificationSent
		cp.LastNotificationSent = &sent
	}
	return &cp
}

// map iteration order is random; keep results stable for callers and tests
func sortByDueDate(reminders []*domain.Reminder) {
	sort.Slice(reminders, func(i, j int) bool {
		if reminders[i].DueDate.Equal(reminders[j].DueDate) {
			return reminders[i].ID < reminders[j].ID
		}
		return reminders[i].DueDate.Before(reminders[j].DueDate)
	})
}
