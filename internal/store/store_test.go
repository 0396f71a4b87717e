package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/quietbill/quietbill/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Settings{}, &models.Client{}, &models.Invoice{}, &models.LineItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	u := models.User{ID: NewID(), Name: "Test User", Email: email, PasswordHash: "x"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedClient(t *testing.T, db *gorm.DB, ownerID, name string) models.Client {
	t.Helper()
	c := models.Client{ID: NewID(), UserID: ownerID, Name: name, Status: models.ClientStatusActive}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return c
}

func seedInvoice(t *testing.T, db *gorm.DB, ownerID, clientID string) models.Invoice {
	t.Helper()
	inv := models.Invoice{
		ID: NewID(), UserID: ownerID, ClientID: clientID, Number: "INV-001",
		IssueDate: time.Now(), DueDate: time.Now().AddDate(0, 1, 0),
		Status: models.InvoiceStatusDraft,
	}
	if err := db.Create(&inv).Error; err != nil {
		t.Fatalf("seed invoice: %v", err)
	}
	return inv
}

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }
func i64Ptr(i int64) *int64     { return &i }
