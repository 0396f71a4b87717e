package store

import (
	"testing"

	"github.com/quietbill/quietbill/internal/models"
)

func TestClientCreateRequiresName(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "c1@test")
	s := NewClientStore(db)

	_, err := s.Create(u.ID, ClientInput{})
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Field != "name" || ve.Reason != "required" {
		t.Fatalf("unexpected violation: %+v", ve)
	}

	_, err = s.Create(u.ID, ClientInput{Name: strPtr("   ")})
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("blank name should fail validation, got %v", err)
	}
}

func TestClientCreateDefaults(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "c2@test")
	s := NewClientStore(db)

	c, err := s.Create(u.ID, ClientInput{Name: strPtr("Acme")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ID == "" {
		t.Fatal("expected generated id")
	}
	if c.Status != models.ClientStatusActive {
		t.Fatalf("expected active status, got %s", c.Status)
	}
	if c.UserID != u.ID {
		t.Fatalf("owner mismatch: %s", c.UserID)
	}
}

func TestClientUpsertScenario(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "c3@test")
	s := NewClientStore(db)

	// Upsert without id creates and assigns one.
	c, err := s.Upsert(u.ID, ClientInput{Name: strPtr("Acme")})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if c.ID == "" {
		t.Fatal("expected generated id")
	}

	// Upsert with that id updates in place.
	c2, err := s.Upsert(u.ID, ClientInput{ID: c.ID, Name: strPtr("Acme Corp")})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if c2.ID != c.ID {
		t.Fatalf("id changed on upsert: %s != %s", c2.ID, c.ID)
	}
	if c2.Name != "Acme Corp" {
		t.Fatalf("name not updated: %s", c2.Name)
	}

	list, err := s.List(u.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected exactly one client, got %d", len(list))
	}
}

func TestClientUpsertRetriedCreateIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "c4@test")
	s := NewClientStore(db)

	in := ClientInput{ID: NewID(), Name: strPtr("Acme")}
	if _, err := s.Upsert(u.ID, in); err != nil {
		t.Fatalf("first attempt: %v", err)
	}
	// Simulated optimistic retry with the same client-chosen id.
	if _, err := s.Upsert(u.ID, in); err != nil {
		t.Fatalf("retry: %v", err)
	}
	list, _ := s.List(u.ID)
	if len(list) != 1 {
		t.Fatalf("retry created a duplicate: %d rows", len(list))
	}
}

func TestClientUpsertForeignIDReadsAsNotFound(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "c9a@test")
	bob := seedUser(t, db, "c9b@test")
	s := NewClientStore(db)

	c := seedClient(t, db, bob.ID, "Bobs Client")

	// An id held by another owner must look exactly like a missing id, not
	// bubble up as a unique-constraint failure.
	_, err := s.Upsert(alice.ID, ClientInput{ID: c.ID, Name: strPtr("Hijack")})
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on foreign-id upsert, got %v", err)
	}
	got, err := s.Get(bob.ID, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Bobs Client" {
		t.Fatalf("foreign upsert mutated the row: %+v", got)
	}
}

func TestClientUpdateMergesPartialFields(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "c5@test")
	s := NewClientStore(db)

	c, err := s.Create(u.ID, ClientInput{Name: strPtr("Acme"), Email: strPtr("acme@co"), City: strPtr("Springfield")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := s.Update(u.ID, c.ID, ClientInput{City: strPtr("Shelbyville")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Acme" || updated.Email != "acme@co" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
	if updated.City != "Shelbyville" {
		t.Fatalf("city not updated: %s", updated.City)
	}
}

func TestClientUpdateRefreshesTimestamp(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "c6@test")
	s := NewClientStore(db)

	c, _ := s.Create(u.ID, ClientInput{Name: strPtr("Acme")})
	before := c.UpdatedAt
	updated, err := s.Update(u.ID, c.ID, ClientInput{Name: strPtr("Acme 2")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.UpdatedAt.Before(before) {
		t.Fatalf("updated_at went backwards: %v -> %v", before, updated.UpdatedAt)
	}
}

func TestClientStatusValidated(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "c7@test")
	s := NewClientStore(db)

	bad := models.ClientStatus("frozen")
	if _, err := s.Create(u.ID, ClientInput{Name: strPtr("A"), Status: &bad}); err == nil {
		t.Fatal("expected validation error for unknown status")
	}
	archived := models.ClientStatusArchived
	c, err := s.Create(u.ID, ClientInput{Name: strPtr("B"), Status: &archived})
	if err != nil {
		t.Fatalf("create archived: %v", err)
	}
	if c.Status != models.ClientStatusArchived {
		t.Fatalf("status not applied: %s", c.Status)
	}
}

func TestClientCrossOwnerIsolation(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice@test")
	bob := seedUser(t, db, "bob@test")
	s := NewClientStore(db)

	c := seedClient(t, db, bob.ID, "Bobs Client")

	if _, err := s.Get(alice.ID, c.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for foreign client, got %v", err)
	}
	if _, err := s.Update(alice.ID, c.ID, ClientInput{Name: strPtr("Hijack")}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on foreign update, got %v", err)
	}
	if err := s.Delete(alice.ID, c.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on foreign delete, got %v", err)
	}
	list, err := s.List(alice.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("foreign rows leaked into list: %d", len(list))
	}
}

func TestClientDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "c8@test")
	clients := NewClientStore(db)
	invoices := NewInvoiceStore(db)

	c := seedClient(t, db, u.ID, "Acme")
	inv := seedInvoice(t, db, u.ID, c.ID)
	li := models.LineItem{ID: NewID(), UserID: u.ID, InvoiceID: inv.ID, Description: "Dev", Quantity: 1, Amount: 100}
	if err := db.Create(&li).Error; err != nil {
		t.Fatalf("seed line item: %v", err)
	}

	if err := clients.Delete(u.ID, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := invoices.Get(u.ID, inv.ID); err != ErrNotFound {
		t.Fatalf("invoice survived cascade: %v", err)
	}
	invs, err := invoices.ListForClient(u.ID, c.ID)
	if err != nil {
		t.Fatalf("list for client: %v", err)
	}
	if len(invs) != 0 {
		t.Fatalf("expected no invoices after cascade, got %d", len(invs))
	}
	var itemCount int64
	db.Model(&models.LineItem{}).Where("invoice_id = ?", inv.ID).Count(&itemCount)
	if itemCount != 0 {
		t.Fatalf("line items survived cascade: %d", itemCount)
	}

	// Deleting again signals NotFound, which callers read as "already gone".
	if err := clients.Delete(u.ID, c.ID); err != ErrNotFound {
		t.Fatalf("second delete: %v", err)
	}
}
