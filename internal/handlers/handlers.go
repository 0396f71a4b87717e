// Package handlers is the API boundary: it validates request shape, resolves
// the owner from the session, delegates to the store or the invoice service,
// and is the only layer that turns typed errors into status codes.
package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/quietbill/quietbill/httpx"
	"github.com/quietbill/quietbill/internal/store"
)

// writeError maps store errors onto the wire contract. Storage failures are
// logged with their detail here and serialized without it.
func writeError(w http.ResponseWriter, err error) {
	var ve *store.ValidationError
	var se *store.StorageError
	switch {
	case errors.As(err, &ve):
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{ve.Field: ve.Reason})
	case errors.Is(err, store.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.As(err, &se):
		log.Printf("storage error: %v", se)
		httpx.JSONError(w, http.StatusInternalServerError, "storage_error", nil)
	default:
		log.Printf("unexpected error: %v", err)
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
