package domain

import (
	"strings"
	"time"
)

// DeviceToken represents a push delivery address registered by one of a user's devices
type DeviceToken struct {
	ID         string    `json:"id" firestore:"-" gorm:"primaryKey"`
	UserID     string    `json:"user_id" firestore:"userId" gorm:"index;not null"`
	Token      string    `json:"-" firestore:"token" gorm:"not null"` // Don't expose token in JSON
	DeviceInfo string    `json:"device_info" firestore:"deviceInfo"`
	Platform   string    `json:"platform,omitempty" firestore:"platform"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt  time.Time `json:"updated_at" firestore:"updatedAt"`
}

// PlatformCategory normalizes the stored platform to "android", "ios", "web" or "unknown"
func (t *DeviceToken) PlatformCategory() string {
	switch strings.ToLower(strings.TrimSpace(t.Platform)) {
	case "android":
		return "android"
	case "ios", "iphone", "ipad":
		return "ios"
	case "web", "browser":
		return "web"
	default:
		return "unknown"
	}
}
