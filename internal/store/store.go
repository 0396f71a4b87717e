// Package store is the single source of truth for CRUD against each entity.
// The schema cannot enforce ownership or that an invoice's user matches its
// client's user, so every query here scopes by owner id and every reference
// is checked before a write.
package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound covers both "missing" and "exists but owned by someone else".
// The two cases are deliberately indistinguishable so existence never leaks
// across tenants.
var ErrNotFound = errors.New("not_found")

// ValidationError names the offending field so the message is actionable.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// StorageError wraps an engine failure. Its details are logged server-side
// and never serialized to a caller.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }

// wrap maps gorm's record-not-found onto ErrNotFound and everything else
// onto a StorageError for the given operation.
func wrap(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return &StorageError{Op: op, Err: err}
}

// NewID returns an opaque collision-resistant identifier. Ids double as
// idempotency keys for optimistic client retries, so a counter would not do.
func NewID() string { return uuid.NewString() }

// idTaken reports whether any row of model already holds id, regardless of
// owner. Upsert consults it so a foreign id reads as not found instead of
// hitting the primary-key constraint, which would leak existence across
// tenants through the status code.
func idTaken(db *gorm.DB, model any, id string) (bool, error) {
	var count int64
	err := db.Model(model).Where("id = ?", id).Limit(1).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
