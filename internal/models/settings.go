package models

import "time"

// Settings holds the sender identity printed on a user's invoices. There is
// at most one row per user: it is created lazily on first save and updated
// thereafter, never deleted except with the user.
type Settings struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	UserID string `gorm:"size:36;not null;uniqueIndex" json:"user_id"`

	SenderName string `gorm:"size:255;not null" json:"sender_name"`
	Email      string `gorm:"size:255;not null" json:"email"`
	Street     string `gorm:"size:255;not null" json:"street"`
	City       string `gorm:"size:255;not null" json:"city"`
	State      string `gorm:"size:100;not null" json:"state"`
	Zip        string `gorm:"size:20;not null" json:"zip"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
