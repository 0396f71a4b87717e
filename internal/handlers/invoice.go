package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/quietbill/quietbill/auth"
	"github.com/quietbill/quietbill/httpx"
	"github.com/quietbill/quietbill/internal/models"
	"github.com/quietbill/quietbill/internal/services"
	"github.com/quietbill/quietbill/internal/store"
	"github.com/quietbill/quietbill/validation"
	"gorm.io/gorm"
)

type InvoiceHandler struct {
	invoices *store.InvoiceStore
	items    *store.LineItemStore
	svc      *services.InvoiceService
}

func NewInvoiceHandler(db *gorm.DB, svc *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		invoices: store.NewInvoiceStore(db),
		items:    store.NewLineItemStore(db),
		svc:      svc,
	}
}

type lineItemRequest struct {
	ID          string   `json:"id"`
	Description *string  `json:"description"`
	Quantity    *float64 `json:"quantity"`
	Amount      *int64   `json:"amount"`
}

func (r *lineItemRequest) input() store.LineItemInput {
	return store.LineItemInput{ID: r.ID, Description: r.Description, Quantity: r.Quantity, Amount: r.Amount}
}

type invoiceRequest struct {
	ID        string             `json:"id"`
	Number    *string            `json:"invoice_number"`
	ClientID  *string            `json:"client_id"`
	Subject   *string            `json:"subject"`
	IssueDate *time.Time         `json:"issue_date"`
	DueDate   *time.Time         `json:"due_date"`
	Discount  *float64           `json:"discount"`
	Notes     *string            `json:"notes"`
	Terms     *string            `json:"terms"`
	Status    *string            `json:"invoice_status"`
	LineItems *[]lineItemRequest `json:"line_items"`
}

func (r *invoiceRequest) input() store.InvoiceInput {
	in := store.InvoiceInput{
		ID:        r.ID,
		Number:    r.Number,
		ClientID:  r.ClientID,
		Subject:   r.Subject,
		IssueDate: r.IssueDate,
		DueDate:   r.DueDate,
		Discount:  r.Discount,
		Notes:     r.Notes,
		Terms:     r.Terms,
	}
	if r.Status != nil {
		st := models.InvoiceStatus(*r.Status)
		in.Status = &st
	}
	return in
}

// lines returns the store inputs for the request's line-item set, or nil
// when the request left items untouched.
func (r *invoiceRequest) lines() []store.LineItemInput {
	if r.LineItems == nil {
		return nil
	}
	out := make([]store.LineItemInput, 0, len(*r.LineItems))
	for _, li := range *r.LineItems {
		out = append(out, li.input())
	}
	return out
}

func (r *invoiceRequest) validate(creating bool) validation.Violations {
	v := make(validation.Violations)
	if creating {
		if r.Number == nil {
			v["invoice_number"] = "required"
		}
		if r.ClientID == nil {
			v["client_id"] = "required"
		}
		if r.IssueDate == nil {
			v["issue_date"] = "required"
		}
		if r.DueDate == nil {
			v["due_date"] = "required"
		}
	}
	if r.Number != nil {
		validation.Required("invoice_number", *r.Number, v)
	}
	if r.Discount != nil {
		validation.RangeFloat("discount", *r.Discount, 0, 100, v)
	}
	if r.Status != nil {
		validation.OneOf("invoice_status", *r.Status, []string{
			string(models.InvoiceStatusDraft), string(models.InvoiceStatusSent), string(models.InvoiceStatusPaid),
		}, v)
	}
	if r.LineItems != nil {
		for _, li := range *r.LineItems {
			if li.Description == nil {
				v["line_items.description"] = "required"
			} else {
				validation.Required("line_items.description", *li.Description, v)
			}
			if li.Amount == nil {
				v["line_items.amount"] = "required"
			}
		}
	}
	return v
}

// List: GET /invoices
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())
	invs, err := h.invoices.List(ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, invs)
}

// Create: POST /invoices — invoice plus line items as one aggregate. A body
// carrying an id upserts, so an optimistic retry lands on the same row.
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())
	var req invoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(true); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	inv, err := h.svc.CreateWithLineItems(ownerID, req.input(), req.lines())
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{"id": inv.ID})
}

// Get: GET /invoices/{id} — invoice, client and line items together.
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())
	out, err := h.svc.GetWithRelations(ownerID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Update: PUT /invoices/{id}. When the body carries line_items the whole
// set is replaced; omitting the key leaves items untouched.
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())
	var req invoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(false); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	inv, err := h.svc.UpdateWithLineItems(ownerID, r.PathValue("id"), req.input(), req.lines())
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

// Delete: DELETE /invoices/{id} — cascades to line items.
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())
	if err := h.svc.DeleteCascade(ownerID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ListLineItems: GET /invoices/{id}/line-items
func (h *InvoiceHandler) ListLineItems(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())
	items, err := h.items.ListForInvoice(ownerID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

// ReplaceLineItems: PUT /invoices/{id}/line-items — wholesale replace; an
// empty array clears the invoice.
func (h *InvoiceHandler) ReplaceLineItems(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())
	var reqs []lineItemRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	lines := make([]store.LineItemInput, 0, len(reqs))
	for _, li := range reqs {
		lines = append(lines, li.input())
	}
	items, err := h.svc.ReplaceLineItems(ownerID, r.PathValue("id"), lines)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}
