package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/quietbill/quietbill/auth"
	"github.com/quietbill/quietbill/httpx"
	"github.com/quietbill/quietbill/internal/models"
	"github.com/quietbill/quietbill/internal/store"
	"github.com/quietbill/quietbill/validation"
	"gorm.io/gorm"
)

type ClientHandler struct {
	clients  *store.ClientStore
	invoices *store.InvoiceStore
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{clients: store.NewClientStore(db), invoices: store.NewInvoiceStore(db)}
}

type clientRequest struct {
	ID     string  `json:"id"`
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Street *string `json:"street"`
	City   *string `json:"city"`
	State  *string `json:"state"`
	Zip    *string `json:"zip"`
	Status *string `json:"client_status"`
}

func (r *clientRequest) input() store.ClientInput {
	in := store.ClientInput{
		ID:     r.ID,
		Name:   r.Name,
		Email:  r.Email,
		Street: r.Street,
		City:   r.City,
		State:  r.State,
		Zip:    r.Zip,
	}
	if r.Status != nil {
		st := models.ClientStatus(*r.Status)
		in.Status = &st
	}
	return in
}

// validate rejects malformed shapes before any store call so the response
// can name every offending field at once.
func (r *clientRequest) validate(creating bool) validation.Violations {
	v := make(validation.Violations)
	if creating || r.Name != nil {
		name := ""
		if r.Name != nil {
			name = *r.Name
		}
		validation.Required("name", name, v)
	}
	if r.Status != nil {
		validation.OneOf("client_status", *r.Status, []string{string(models.ClientStatusActive), string(models.ClientStatusArchived)}, v)
	}
	return v
}

// List: GET /clients
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())
	clients, err := h.clients.List(ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, clients)
}

// Create: POST /clients. A body carrying an id upserts, so an optimistic
// client retry with the same chosen id lands on the same row.
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())
	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(req.ID == ""); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	client, err := h.clients.Upsert(ownerID, req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{"id": client.ID})
}

// Get: GET /clients/{id} — the client with its invoices embedded.
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())
	client, err := h.clients.GetWithInvoices(ownerID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, client)
}

// Update: PUT /clients/{id}
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())
	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(false); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	client, err := h.clients.Update(ownerID, r.PathValue("id"), req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, client)
}

// Delete: DELETE /clients/{id} — cascades to invoices and line items.
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())
	if err := h.clients.Delete(ownerID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ListInvoices: GET /clients/{id}/invoices
func (h *ClientHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())
	invs, err := h.invoices.ListForClient(ownerID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, invs)
}
