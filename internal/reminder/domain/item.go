package domain

import "time"

// Item is a product recognised from a receipt. Only UserID matters to the
// notification dispatcher, which uses it to recover a reminder's owner.
type Item struct {
	ID           string    `json:"id" firestore:"-" gorm:"primaryKey"`
	UserID       string    `json:"userId" firestore:"userId" gorm:"column:user_id;index"`
	Name         string    `json:"name" firestore:"name"`
	Category     string    `json:"category" firestore:"category"`
	DisposalDate time.Time `json:"disposalDate" firestore:"disposalDate" gorm:"column:disposal_date"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt"`
}
