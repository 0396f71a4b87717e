package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quietbill/quietbill/internal/store"
)

func TestWriteErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", &store.ValidationError{Field: "name", Reason: "required"}, http.StatusBadRequest, "validation_failed"},
		{"not found", store.ErrNotFound, http.StatusNotFound, "not_found"},
		{"wrapped not found", &store.StorageError{Op: "get client", Err: store.ErrNotFound}, http.StatusNotFound, "not_found"},
		{"storage", &store.StorageError{Op: "list clients", Err: errors.New("disk on fire")}, http.StatusInternalServerError, "storage_error"},
		{"unknown", errors.New("surprise"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeError(rec, tc.err)
		if rec.Code != tc.wantStatus {
			t.Fatalf("%s: status = %d, want %d", tc.name, rec.Code, tc.wantStatus)
		}
		var body struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: bad body %q: %v", tc.name, rec.Body.String(), err)
		}
		if body.Error != tc.wantCode {
			t.Fatalf("%s: error = %q, want %q", tc.name, body.Error, tc.wantCode)
		}
	}
}

func TestWriteErrorValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, &store.ValidationError{Field: "discount", Reason: "out_of_range"})
	var body struct {
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if body.Details["discount"] != "out_of_range" {
		t.Fatalf("details = %+v", body.Details)
	}
}

func TestWriteErrorHidesStorageDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, &store.StorageError{Op: "create invoice", Err: errors.New("dsn=postgres://user:hunter2@db")})
	if got := rec.Body.String(); strings.Contains(got, "hunter2") || strings.Contains(got, "dsn=") {
		t.Fatalf("storage detail leaked: %s", got)
	}
}
