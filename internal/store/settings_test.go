package store

import (
	"testing"

	"github.com/quietbill/quietbill/internal/models"
)

func fullSettings() SettingsInput {
	return SettingsInput{
		SenderName: strPtr("Jo Freelance"),
		Email:      strPtr("jo@example.com"),
		Street:     strPtr("1 Main St"),
		City:       strPtr("Springfield"),
		State:      strPtr("IL"),
		Zip:        strPtr("62701"),
	}
}

func TestSettingsGetBeforeFirstSave(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "s1@test")
	s := NewSettingsStore(db)

	if _, err := s.Get(u.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound before first save, got %v", err)
	}
}

func TestSettingsLazyCreateRequiresAllFields(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "s2@test")
	s := NewSettingsStore(db)

	in := fullSettings()
	in.City = nil
	_, err := s.Upsert(u.ID, in)
	ve, ok := err.(*ValidationError)
	if !ok || ve.Field != "city" {
		t.Fatalf("expected city violation, got %v", err)
	}
}

func TestSettingsUpsertCreateThenMerge(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "s3@test")
	s := NewSettingsStore(db)

	created, err := s.Upsert(u.ID, fullSettings())
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if created.UserID != u.ID {
		t.Fatalf("owner mismatch: %s", created.UserID)
	}

	// Second upsert with a partial payload merges instead of wiping.
	updated, err := s.Upsert(u.ID, SettingsInput{City: strPtr("Shelbyville")})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("row replaced instead of merged: %s != %s", updated.ID, created.ID)
	}
	if updated.City != "Shelbyville" || updated.SenderName != "Jo Freelance" {
		t.Fatalf("merge wrong: %+v", updated)
	}

	var count int64
	db.Model(&models.Settings{}).Where("user_id = ?", u.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected one settings row, got %d", count)
	}
}

func TestSettingsPerUserIsolation(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "s4@test")
	bob := seedUser(t, db, "s5@test")
	s := NewSettingsStore(db)

	if _, err := s.Upsert(alice.ID, fullSettings()); err != nil {
		t.Fatalf("alice upsert: %v", err)
	}
	if _, err := s.Get(bob.ID); err != ErrNotFound {
		t.Fatalf("bob should have no settings, got %v", err)
	}
}
