// Package services composes store operations into the units callers actually
// edit. An invoice and its line items are separate rows but one aggregate
// from the caller's point of view; this package keeps that illusion intact.
package services

import (
	"github.com/quietbill/quietbill/internal/models"
	"github.com/quietbill/quietbill/internal/money"
	"github.com/quietbill/quietbill/internal/store"
	"gorm.io/gorm"
)

type InvoiceService struct {
	db       *gorm.DB
	currency string
}

func NewInvoiceService(db *gorm.DB, currency string) *InvoiceService {
	return &InvoiceService{db: db, currency: currency}
}

// InvoiceWithRelations is the read-side composition of one aggregate,
// including the computed amounts so no caller re-implements the arithmetic.
type InvoiceWithRelations struct {
	Invoice   models.Invoice    `json:"invoice"`
	Client    models.Client     `json:"client"`
	LineItems []models.LineItem `json:"line_items"`

	Subtotal       int64  `json:"subtotal"`
	Total          int64  `json:"total"`
	TotalFormatted string `json:"total_formatted"`
}

// CreateWithLineItems creates the invoice and all its line items in a single
// transaction; an invoice-without-line-items state can never be observed.
// Line-item ownership is forced to ownerID and the new invoice id, closing
// the privilege escalation a trusting implementation would allow.
//
// The invoice goes through Upsert, so a client retrying a create with its
// chosen id lands on the same row and the line-item set is replaced rather
// than duplicated.
func (s *InvoiceService) CreateWithLineItems(ownerID string, inv store.InvoiceInput, lines []store.LineItemInput) (*models.Invoice, error) {
	var created *models.Invoice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		invoices := store.NewInvoiceStore(tx)
		var err error
		created, err = invoices.Upsert(ownerID, inv)
		if err != nil {
			return err
		}
		return replaceLineItems(tx, ownerID, created.ID, lines)
	})
	if err != nil {
		return nil, err
	}
	return store.NewInvoiceStore(s.db).Get(ownerID, created.ID)
}

// UpdateWithLineItems merges invoice fields and, when lines is non-nil,
// replaces the full line-item set in the same transaction. lines == nil
// means "leave the items alone"; an empty non-nil slice clears them.
func (s *InvoiceService) UpdateWithLineItems(ownerID, invoiceID string, inv store.InvoiceInput, lines []store.LineItemInput) (*models.Invoice, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		invoices := store.NewInvoiceStore(tx)
		if _, err := invoices.Update(ownerID, invoiceID, inv); err != nil {
			return err
		}
		if lines != nil {
			return replaceLineItems(tx, ownerID, invoiceID, lines)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store.NewInvoiceStore(s.db).Get(ownerID, invoiceID)
}

// ReplaceLineItems swaps the invoice's entire line-item set for the provided
// one. This is a wholesale replace, not a diff: every row is deleted and the
// new set inserted with fresh ids, even when the caller resends old ids.
func (s *InvoiceService) ReplaceLineItems(ownerID, invoiceID string, lines []store.LineItemInput) ([]models.LineItem, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Invoice{}).
			Where("id = ? AND user_id = ?", invoiceID, ownerID).
			Limit(1).Count(&count).Error
		if err != nil {
			return err
		}
		if count == 0 {
			return store.ErrNotFound
		}
		return replaceLineItems(tx, ownerID, invoiceID, lines)
	})
	if err != nil {
		return nil, err
	}
	return store.NewLineItemStore(s.db).ListForInvoice(ownerID, invoiceID)
}

// DeleteCascade removes the invoice and its line items.
func (s *InvoiceService) DeleteCascade(ownerID, invoiceID string) error {
	return store.NewInvoiceStore(s.db).Delete(ownerID, invoiceID)
}

// GetWithRelations resolves the full aggregate. An invoice whose client
// cannot be resolved is corrupt state and surfaces as ErrNotFound rather
// than a partial object with a hole where the client should be.
func (s *InvoiceService) GetWithRelations(ownerID, invoiceID string) (*InvoiceWithRelations, error) {
	inv, err := store.NewInvoiceStore(s.db).Get(ownerID, invoiceID)
	if err != nil {
		return nil, err
	}
	client, err := store.NewClientStore(s.db).Get(ownerID, inv.ClientID)
	if err != nil {
		return nil, err
	}
	items := inv.LineItems
	if items == nil {
		items = []models.LineItem{}
	}
	subtotal, total := inv.Subtotal(), inv.Total()
	inv.LineItems = nil
	return &InvoiceWithRelations{
		Invoice:        *inv,
		Client:         *client,
		LineItems:      items,
		Subtotal:       subtotal,
		Total:          total,
		TotalFormatted: money.Format(total, s.currency),
	}, nil
}

func replaceLineItems(tx *gorm.DB, ownerID, invoiceID string, lines []store.LineItemInput) error {
	if err := tx.Where("invoice_id = ?", invoiceID).Delete(&models.LineItem{}).Error; err != nil {
		return err
	}
	items := store.NewLineItemStore(tx)
	for _, line := range lines {
		line.ID = "" // replaced rows always get fresh ids
		if _, err := items.Create(ownerID, invoiceID, line); err != nil {
			return err
		}
	}
	return nil
}
