package models

import (
	"time"

	"github.com/quietbill/quietbill/internal/money"
)

// InvoiceStatus represents the status of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "draft"
	InvoiceStatusSent  InvoiceStatus = "sent"
	InvoiceStatusPaid  InvoiceStatus = "paid"
)

// ValidInvoiceStatus reports whether s is one of the known statuses.
// Transitions between statuses are caller-driven and unconstrained.
func ValidInvoiceStatus(s InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid:
		return true
	}
	return false
}

// Invoice is a bill issued to a client. It belongs to exactly one user and
// exactly one client, and the two ownership references must agree: the
// invoice's UserID always equals its client's UserID (the store enforces
// this, the schema cannot).
type Invoice struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	UserID string `gorm:"size:36;not null;index" json:"user_id"`

	Number   string `gorm:"size:50;not null" json:"invoice_number"`
	ClientID string `gorm:"size:36;not null;index" json:"client_id"`
	Subject  string `gorm:"size:255" json:"subject,omitempty"`

	IssueDate time.Time `gorm:"not null" json:"issue_date"`
	DueDate   time.Time `gorm:"not null" json:"due_date"`

	// Discount is a percentage in [0,100] applied to the subtotal.
	Discount float64 `gorm:"default:0" json:"discount"`

	Notes  string        `gorm:"type:text" json:"notes,omitempty"`
	Terms  string        `gorm:"type:text" json:"terms,omitempty"`
	Status InvoiceStatus `gorm:"size:20;default:'draft'" json:"invoice_status"`

	LineItems []LineItem `gorm:"foreignKey:InvoiceID" json:"line_items,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subtotal sums the loaded line items in minor currency units.
func (i *Invoice) Subtotal() int64 {
	return money.Subtotal(lines(i.LineItems))
}

// Total applies the invoice discount to the subtotal, in minor currency units.
func (i *Invoice) Total() int64 {
	return money.Total(i.Discount, lines(i.LineItems))
}

// Late reports whether the invoice is overdue as of today. It is a derived
// display property: nothing ever persists it or flips Status automatically.
func (i *Invoice) Late(today time.Time) bool {
	return i.Status == InvoiceStatusSent && i.DueDate.Before(today)
}

func lines(items []LineItem) []money.Line {
	ls := make([]money.Line, len(items))
	for n, it := range items {
		ls[n] = money.Line{Quantity: it.Quantity, Amount: it.Amount}
	}
	return ls
}
