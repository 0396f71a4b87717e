package store

import (
	"strings"

	"github.com/quietbill/quietbill/internal/models"
	"gorm.io/gorm"
)

// LineItemInput carries line-item fields. UserID and InvoiceID are never
// taken from callers; the owning store or service forces them.
type LineItemInput struct {
	ID          string
	Description *string
	Quantity    *float64
	Amount      *int64
}

type LineItemStore struct {
	db *gorm.DB
}

func NewLineItemStore(db *gorm.DB) *LineItemStore { return &LineItemStore{db: db} }

// ListForInvoice returns the line items of an owned invoice. The invoice is
// resolved first so a foreign invoice id yields ErrNotFound, not an empty
// list that would read as "invoice exists, no items".
func (s *LineItemStore) ListForInvoice(ownerID, invoiceID string) ([]models.LineItem, error) {
	var count int64
	err := s.db.Model(&models.Invoice{}).
		Where("id = ? AND user_id = ?", invoiceID, ownerID).
		Limit(1).Count(&count).Error
	if err != nil {
		return nil, wrap("list line items", err)
	}
	if count == 0 {
		return nil, ErrNotFound
	}
	var items []models.LineItem
	if err := s.db.Where("invoice_id = ?", invoiceID).Order("created_at").Find(&items).Error; err != nil {
		return nil, wrap("list line items", err)
	}
	return items, nil
}

// Get returns a single owned line item.
func (s *LineItemStore) Get(ownerID, id string) (*models.LineItem, error) {
	var item models.LineItem
	if err := s.db.Where("id = ? AND user_id = ?", id, ownerID).First(&item).Error; err != nil {
		return nil, wrap("get line item", err)
	}
	return &item, nil
}

// Create inserts one line item under the given invoice, which must already
// have been verified as owned by ownerID by the caller.
func (s *LineItemStore) Create(ownerID, invoiceID string, in LineItemInput) (*models.LineItem, error) {
	if in.Description == nil || strings.TrimSpace(*in.Description) == "" {
		return nil, invalid("description", "required")
	}
	if in.Amount == nil {
		return nil, invalid("amount", "required")
	}
	item := models.LineItem{
		ID:          in.ID,
		UserID:      ownerID,
		InvoiceID:   invoiceID,
		Description: strings.TrimSpace(*in.Description),
		Quantity:    1,
		Amount:      *in.Amount,
	}
	if item.ID == "" {
		item.ID = NewID()
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, invalid("quantity", "must_be_positive")
		}
		item.Quantity = *in.Quantity
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, wrap("create line item", err)
	}
	return &item, nil
}

// Update merges non-nil fields into an owned line item.
func (s *LineItemStore) Update(ownerID, id string, in LineItemInput) (*models.LineItem, error) {
	item, err := s.Get(ownerID, id)
	if err != nil {
		return nil, err
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		if desc == "" {
			return nil, invalid("description", "required")
		}
		item.Description = desc
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, invalid("quantity", "must_be_positive")
		}
		item.Quantity = *in.Quantity
	}
	if in.Amount != nil {
		item.Amount = *in.Amount
	}
	if err := s.db.Save(item).Error; err != nil {
		return nil, wrap("update line item", err)
	}
	return item, nil
}

// Delete removes one owned line item.
func (s *LineItemStore) Delete(ownerID, id string) error {
	res := s.db.Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.LineItem{})
	if res.Error != nil {
		return wrap("delete line item", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
