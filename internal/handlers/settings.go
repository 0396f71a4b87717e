package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/quietbill/quietbill/auth"
	"github.com/quietbill/quietbill/httpx"
	"github.com/quietbill/quietbill/internal/store"
	"gorm.io/gorm"
)

type SettingsHandler struct {
	settings *store.SettingsStore
}

func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{settings: store.NewSettingsStore(db)}
}

type settingsRequest struct {
	SenderName *string `json:"sender_name"`
	Email      *string `json:"email"`
	Street     *string `json:"street"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	Zip        *string `json:"zip"`
}

// Get: GET /settings — 404 until first save.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())
	settings, err := h.settings.Get(ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, settings)
}

// Upsert: PUT /settings — lazily creates the single row, merges thereafter.
func (h *SettingsHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	settings, err := h.settings.Upsert(ownerID, store.SettingsInput{
		SenderName: req.SenderName,
		Email:      req.Email,
		Street:     req.Street,
		City:       req.City,
		State:      req.State,
		Zip:        req.Zip,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, settings)
}
