package store

import (
	"strings"

	"github.com/quietbill/quietbill/internal/models"
	"gorm.io/gorm"
)

// ClientInput carries client fields for create, update and upsert. Pointer
// fields distinguish "leave unchanged" from "set to empty" on partial update.
type ClientInput struct {
	ID     string
	Name   *string
	Email  *string
	Street *string
	City   *string
	State  *string
	Zip    *string
	Status *models.ClientStatus
}

type ClientStore struct {
	db *gorm.DB
}

func NewClientStore(db *gorm.DB) *ClientStore { return &ClientStore{db: db} }

// List returns all clients owned by ownerID.
func (s *ClientStore) List(ownerID string) ([]models.Client, error) {
	var clients []models.Client
	if err := s.db.Where("user_id = ?", ownerID).Order("name").Find(&clients).Error; err != nil {
		return nil, wrap("list clients", err)
	}
	return clients, nil
}

// Get returns the client only if it is owned by ownerID.
func (s *ClientStore) Get(ownerID, id string) (*models.Client, error) {
	var client models.Client
	if err := s.db.Where("id = ? AND user_id = ?", id, ownerID).First(&client).Error; err != nil {
		return nil, wrap("get client", err)
	}
	return &client, nil
}

// GetWithInvoices loads the client with its invoices and their line items.
func (s *ClientStore) GetWithInvoices(ownerID, id string) (*models.Client, error) {
	var client models.Client
	err := s.db.Where("id = ? AND user_id = ?", id, ownerID).
		Preload("Invoices").Preload("Invoices.LineItems").
		First(&client).Error
	if err != nil {
		return nil, wrap("get client", err)
	}
	return &client, nil
}

// Create inserts a new client. A caller-supplied id is kept so retried
// creates stay idempotent; otherwise an opaque id is generated.
func (s *ClientStore) Create(ownerID string, in ClientInput) (*models.Client, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, invalid("name", "required")
	}
	client := models.Client{
		ID:     in.ID,
		UserID: ownerID,
		Name:   strings.TrimSpace(*in.Name),
		Status: models.ClientStatusActive,
	}
	if client.ID == "" {
		client.ID = NewID()
	}
	applyClientOptionals(&client, in)
	if in.Status != nil {
		if !models.ValidClientStatus(*in.Status) {
			return nil, invalid("client_status", "invalid_value")
		}
		client.Status = *in.Status
	}
	if err := s.db.Create(&client).Error; err != nil {
		return nil, wrap("create client", err)
	}
	return &client, nil
}

// Update merges the non-nil fields into the existing record. UpdatedAt is
// refreshed server-side; callers cannot supply it.
func (s *ClientStore) Update(ownerID, id string, in ClientInput) (*models.Client, error) {
	client, err := s.Get(ownerID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, invalid("name", "required")
		}
		client.Name = name
	}
	applyClientOptionals(client, in)
	if in.Status != nil {
		if !models.ValidClientStatus(*in.Status) {
			return nil, invalid("client_status", "invalid_value")
		}
		client.Status = *in.Status
	}
	if err := s.db.Omit("Invoices").Save(client).Error; err != nil {
		return nil, wrap("update client", err)
	}
	return client, nil
}

// Upsert updates when in.ID names a client owned by ownerID and creates
// otherwise. A retried create with the same client-chosen id therefore
// lands on the update path instead of inserting a duplicate. An id held by
// another owner is ErrNotFound, same as any other foreign row.
func (s *ClientStore) Upsert(ownerID string, in ClientInput) (*models.Client, error) {
	if in.ID != "" {
		if _, err := s.Get(ownerID, in.ID); err == nil {
			return s.Update(ownerID, in.ID, in)
		} else if err != ErrNotFound {
			return nil, err
		}
		taken, err := idTaken(s.db, &models.Client{}, in.ID)
		if err != nil {
			return nil, wrap("upsert client", err)
		}
		if taken {
			return nil, ErrNotFound
		}
	}
	return s.Create(ownerID, in)
}

// Delete removes the client and cascades to its invoices and their line
// items inside one transaction. Deleting an id that is already gone returns
// ErrNotFound; callers treat that as "already gone".
func (s *ClientStore) Delete(ownerID, id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.Where("id = ? AND user_id = ?", id, ownerID).First(&client).Error; err != nil {
			return wrap("delete client", err)
		}
		var invoiceIDs []string
		if err := tx.Model(&models.Invoice{}).
			Where("client_id = ? AND user_id = ?", id, ownerID).
			Pluck("id", &invoiceIDs).Error; err != nil {
			return wrap("delete client", err)
		}
		if len(invoiceIDs) > 0 {
			if err := tx.Where("invoice_id IN ?", invoiceIDs).Delete(&models.LineItem{}).Error; err != nil {
				return wrap("delete client", err)
			}
			if err := tx.Where("id IN ?", invoiceIDs).Delete(&models.Invoice{}).Error; err != nil {
				return wrap("delete client", err)
			}
		}
		if err := tx.Delete(&client).Error; err != nil {
			return wrap("delete client", err)
		}
		return nil
	})
}

func applyClientOptionals(c *models.Client, in ClientInput) {
	if in.Email != nil {
		c.Email = strings.TrimSpace(*in.Email)
	}
	if in.Street != nil {
		c.Street = strings.TrimSpace(*in.Street)
	}
	if in.City != nil {
		c.City = strings.TrimSpace(*in.City)
	}
	if in.State != nil {
		c.State = strings.TrimSpace(*in.State)
	}
	if in.Zip != nil {
		c.Zip = strings.TrimSpace(*in.Zip)
	}
}
