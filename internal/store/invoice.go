package store

import (
	"strings"
	"time"

	"github.com/quietbill/quietbill/internal/models"
	"gorm.io/gorm"
)

// InvoiceInput carries invoice fields for create, update and upsert.
type InvoiceInput struct {
	ID        string
	Number    *string
	ClientID  *string
	Subject   *string
	IssueDate *time.Time
	DueDate   *time.Time
	Discount  *float64
	Notes     *string
	Terms     *string
	Status    *models.InvoiceStatus
}

type InvoiceStore struct {
	db *gorm.DB
}

func NewInvoiceStore(db *gorm.DB) *InvoiceStore { return &InvoiceStore{db: db} }

// List returns all invoices owned by ownerID, line items included.
func (s *InvoiceStore) List(ownerID string) ([]models.Invoice, error) {
	var invs []models.Invoice
	if err := s.db.Where("user_id = ?", ownerID).Preload("LineItems").Order("due_date").Find(&invs).Error; err != nil {
		return nil, wrap("list invoices", err)
	}
	return invs, nil
}

// ListForClient returns the owner's invoices for one client. A client id the
// owner does not hold simply yields an empty list.
func (s *InvoiceStore) ListForClient(ownerID, clientID string) ([]models.Invoice, error) {
	var invs []models.Invoice
	err := s.db.Where("user_id = ? AND client_id = ?", ownerID, clientID).
		Preload("LineItems").Order("due_date").Find(&invs).Error
	if err != nil {
		return nil, wrap("list invoices", err)
	}
	return invs, nil
}

// Get returns the invoice with its line items only if owned by ownerID.
func (s *InvoiceStore) Get(ownerID, id string) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.db.Where("id = ? AND user_id = ?", id, ownerID).
		Preload("LineItems").First(&inv).Error
	if err != nil {
		return nil, wrap("get invoice", err)
	}
	return &inv, nil
}

// Create inserts a new invoice after verifying the referenced client exists
// and is owned by the same user. The raw schema cannot enforce that the two
// ownership references agree, so it is checked here and surfaced as a
// ValidationError rather than a foreign-key failure.
func (s *InvoiceStore) Create(ownerID string, in InvoiceInput) (*models.Invoice, error) {
	if in.Number == nil || strings.TrimSpace(*in.Number) == "" {
		return nil, invalid("invoice_number", "required")
	}
	if in.ClientID == nil || *in.ClientID == "" {
		return nil, invalid("client_id", "required")
	}
	if in.IssueDate == nil {
		return nil, invalid("issue_date", "required")
	}
	if in.DueDate == nil {
		return nil, invalid("due_date", "required")
	}
	if err := s.checkClient(ownerID, *in.ClientID); err != nil {
		return nil, err
	}
	inv := models.Invoice{
		ID:        in.ID,
		UserID:    ownerID,
		Number:    strings.TrimSpace(*in.Number),
		ClientID:  *in.ClientID,
		IssueDate: *in.IssueDate,
		DueDate:   *in.DueDate,
		Status:    models.InvoiceStatusDraft,
	}
	if inv.ID == "" {
		inv.ID = NewID()
	}
	if err := applyInvoiceOptionals(&inv, in); err != nil {
		return nil, err
	}
	if err := s.db.Create(&inv).Error; err != nil {
		return nil, wrap("create invoice", err)
	}
	return &inv, nil
}

// Update merges non-nil fields. A changed client reference is re-verified
// against the same owner.
func (s *InvoiceStore) Update(ownerID, id string, in InvoiceInput) (*models.Invoice, error) {
	inv, err := s.Get(ownerID, id)
	if err != nil {
		return nil, err
	}
	if in.Number != nil {
		number := strings.TrimSpace(*in.Number)
		if number == "" {
			return nil, invalid("invoice_number", "required")
		}
		inv.Number = number
	}
	if in.ClientID != nil {
		if *in.ClientID == "" {
			return nil, invalid("client_id", "required")
		}
		if err := s.checkClient(ownerID, *in.ClientID); err != nil {
			return nil, err
		}
		inv.ClientID = *in.ClientID
	}
	if in.IssueDate != nil {
		inv.IssueDate = *in.IssueDate
	}
	if in.DueDate != nil {
		inv.DueDate = *in.DueDate
	}
	if err := applyInvoiceOptionals(inv, in); err != nil {
		return nil, err
	}
	if err := s.db.Omit("LineItems").Save(inv).Error; err != nil {
		return nil, wrap("update invoice", err)
	}
	return inv, nil
}

// Upsert mirrors ClientStore.Upsert: id present and owned means update, id
// absent or unused means create (keeping a caller-chosen id), id held by
// another owner means ErrNotFound.
func (s *InvoiceStore) Upsert(ownerID string, in InvoiceInput) (*models.Invoice, error) {
	if in.ID != "" {
		if _, err := s.Get(ownerID, in.ID); err == nil {
			return s.Update(ownerID, in.ID, in)
		} else if err != ErrNotFound {
			return nil, err
		}
		taken, err := idTaken(s.db, &models.Invoice{}, in.ID)
		if err != nil {
			return nil, wrap("upsert invoice", err)
		}
		if taken {
			return nil, ErrNotFound
		}
	}
	return s.Create(ownerID, in)
}

// Delete removes the invoice and its line items in one transaction.
func (s *InvoiceStore) Delete(ownerID, id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var inv models.Invoice
		if err := tx.Where("id = ? AND user_id = ?", id, ownerID).First(&inv).Error; err != nil {
			return wrap("delete invoice", err)
		}
		if err := tx.Where("invoice_id = ?", id).Delete(&models.LineItem{}).Error; err != nil {
			return wrap("delete invoice", err)
		}
		if err := tx.Delete(&inv).Error; err != nil {
			return wrap("delete invoice", err)
		}
		return nil
	})
}

func (s *InvoiceStore) checkClient(ownerID, clientID string) error {
	var count int64
	err := s.db.Model(&models.Client{}).
		Where("id = ? AND user_id = ?", clientID, ownerID).
		Limit(1).Count(&count).Error
	if err != nil {
		return wrap("check client", err)
	}
	if count == 0 {
		return invalid("client_id", "unknown_client")
	}
	return nil
}

func applyInvoiceOptionals(inv *models.Invoice, in InvoiceInput) error {
	if in.Subject != nil {
		inv.Subject = strings.TrimSpace(*in.Subject)
	}
	if in.Discount != nil {
		if *in.Discount < 0 || *in.Discount > 100 {
			return invalid("discount", "out_of_range")
		}
		inv.Discount = *in.Discount
	}
	if in.Notes != nil {
		inv.Notes = *in.Notes
	}
	if in.Terms != nil {
		inv.Terms = *in.Terms
	}
	if in.Status != nil {
		if !models.ValidInvoiceStatus(*in.Status) {
			return invalid("invoice_status", "invalid_value")
		}
		inv.Status = *in.Status
	}
	return nil
}
