package models

import "time"

// User is the account that owns every other record. It is created by the
// signup flow and only ever referenced (never mutated) by the billing core.
type User struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	Name         string `gorm:"size:255;not null" json:"name"`
	Email        string `gorm:"size:255;unique;not null;index" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
