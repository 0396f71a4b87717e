package store

import (
	"strings"

	"github.com/quietbill/quietbill/internal/models"
	"gorm.io/gorm"
)

// SettingsInput carries the sender identity fields. All are required on
// first save; updates merge field by field.
type SettingsInput struct {
	SenderName *string
	Email      *string
	Street     *string
	City       *string
	State      *string
	Zip        *string
}

type SettingsStore struct {
	db *gorm.DB
}

func NewSettingsStore(db *gorm.DB) *SettingsStore { return &SettingsStore{db: db} }

// Get returns the user's settings row, ErrNotFound before first save.
func (s *SettingsStore) Get(ownerID string) (*models.Settings, error) {
	var settings models.Settings
	if err := s.db.Where("user_id = ?", ownerID).First(&settings).Error; err != nil {
		return nil, wrap("get settings", err)
	}
	return &settings, nil
}

// Upsert lazily creates the single settings row on first save and merges
// into it thereafter. The user_id unique index backs the one-row invariant.
func (s *SettingsStore) Upsert(ownerID string, in SettingsInput) (*models.Settings, error) {
	existing, err := s.Get(ownerID)
	if err == ErrNotFound {
		return s.create(ownerID, in)
	}
	if err != nil {
		return nil, err
	}
	if err := applySettings(existing, in, false); err != nil {
		return nil, err
	}
	if err := s.db.Save(existing).Error; err != nil {
		return nil, wrap("update settings", err)
	}
	return existing, nil
}

func (s *SettingsStore) create(ownerID string, in SettingsInput) (*models.Settings, error) {
	settings := &models.Settings{ID: NewID(), UserID: ownerID}
	if err := applySettings(settings, in, true); err != nil {
		return nil, err
	}
	if err := s.db.Create(settings).Error; err != nil {
		return nil, wrap("create settings", err)
	}
	return settings, nil
}

func applySettings(dst *models.Settings, in SettingsInput, creating bool) error {
	fields := []struct {
		name string
		in   *string
		out  *string
	}{
		{"sender_name", in.SenderName, &dst.SenderName},
		{"email", in.Email, &dst.Email},
		{"street", in.Street, &dst.Street},
		{"city", in.City, &dst.City},
		{"state", in.State, &dst.State},
		{"zip", in.Zip, &dst.Zip},
	}
	for _, f := range fields {
		if f.in == nil {
			if creating {
				return invalid(f.name, "required")
			}
			continue
		}
		v := strings.TrimSpace(*f.in)
		if v == "" {
			return invalid(f.name, "required")
		}
		*f.out = v
	}
	return nil
}
