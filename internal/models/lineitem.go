package models

import (
	"time"

	"github.com/quietbill/quietbill/internal/money"
)

// LineItem is a single billed line on an invoice. Amount is the unit price in
// minor currency units (cents); Quantity may be fractional (2.5 hours).
// Line items live and die with their invoice: they are deleted on invoice
// delete and replaced wholesale on invoice update.
type LineItem struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	UserID    string `gorm:"size:36;not null;index" json:"user_id"`
	InvoiceID string `gorm:"size:36;not null;index" json:"invoice_id"`

	Description string  `gorm:"size:500;not null" json:"description"`
	Quantity    float64 `gorm:"not null;default:1" json:"quantity"`
	Amount      int64   `gorm:"not null" json:"amount"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Total is the rounded line total in minor currency units.
func (li *LineItem) Total() int64 {
	return money.LineTotal(li.Quantity, li.Amount)
}
