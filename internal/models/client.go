package models

import "time"

// ClientStatus represents the lifecycle state of a client.
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusArchived ClientStatus = "archived"
)

// ValidClientStatus reports whether s is one of the known statuses.
func ValidClientStatus(s ClientStatus) bool {
	return s == ClientStatusActive || s == ClientStatusArchived
}

// Client is a billable customer. Every client belongs to exactly one user;
// deleting a client cascades to its invoices and their line items.
//
// Optional address fields use "" as the single canonical absent value so no
// layer needs to normalize between null and empty string.
type Client struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	UserID string `gorm:"size:36;not null;index" json:"user_id"`

	Name   string       `gorm:"size:255;not null;index" json:"name"`
	Email  string       `gorm:"size:255" json:"email,omitempty"`
	Street string       `gorm:"size:255" json:"street,omitempty"`
	City   string       `gorm:"size:255" json:"city,omitempty"`
	State  string       `gorm:"size:100" json:"state,omitempty"`
	Zip    string       `gorm:"size:20" json:"zip,omitempty"`
	Status ClientStatus `gorm:"size:20;default:'active'" json:"client_status"`

	Invoices []Invoice `gorm:"foreignKey:ClientID" json:"invoices,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
