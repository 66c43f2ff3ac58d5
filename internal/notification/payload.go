package notification

import (
	"fmt"
	"strings"
	"time"

	"disposal-backend/internal/reminder/domain"
	"disposal-backend/pkg/push"
)

const (
	reminderTitle     = "Disposal reminder"
	reminderChannelID = "disposal-reminders"
	reminderClickPath = "/reminders"

	// Keeps the payload well under the 4KB provider limit
	maxItemNameRunes = 100
)

// BuildMessage renders the push message for one reminder. badge is the number of
// reminders dispatched to the same user in this cycle.
func BuildMessage(r *domain.Reminder, badge int) push.Message {
	itemName := truncateRunes(strings.TrimSpace(r.ItemName), maxItemNameRunes)
	name := itemName
	if name == "" {
		name = "An item"
	}

	body := fmt.Sprintf("%s is due for disposal", name)
	if r.Status == domain.ReminderStatusOverdue {
		body = fmt.Sprintf("%s is overdue for disposal", name)
	}

	return push.Message{
		Title: reminderTitle,
		Body:  body,
		Data: map[string]string{
			"type":         "disposal_reminder",
			"reminderId":   r.ID,
			"itemId":       r.ItemID,
			"itemName":     itemName,
			"category":     r.Category,
			"dueDate":      r.DueDate.UTC().Format(time.RFC3339),
			"click_action": reminderClickPath,
		},
		Sound:        "default",
		Badge:        &badge,
		HighPriority: true,
		ChannelID:    reminderChannelID,
		ClickAction:  reminderClickPath,
	}
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
