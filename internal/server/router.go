package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/quietbill/quietbill/auth"
	"github.com/quietbill/quietbill/httpx"
	"github.com/quietbill/quietbill/internal/handlers"
	"github.com/quietbill/quietbill/internal/models"
	"github.com/quietbill/quietbill/internal/services"
	"gorm.io/gorm"
)

// New constructs the root http.Handler with all routes and middlewares
// applied. currency is the ISO code used when formatting invoice totals.
func New(db *gorm.DB, currency string) http.Handler {
	mux := http.NewServeMux()

	// RequireAuth double-checks that the session's user still exists.
	auth.SetUserVerifier(func(_ context.Context, uid string) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	handlers.NewAuthHandler(db).Register(mux)

	protected := func(h http.HandlerFunc) http.Handler {
		return auth.RequireAuth(h)
	}

	ch := handlers.NewClientHandler(db)
	mux.Handle("GET /clients", protected(ch.List))
	mux.Handle("POST /clients", protected(ch.Create))
	mux.Handle("GET /clients/{id}", protected(ch.Get))
	mux.Handle("PUT /clients/{id}", protected(ch.Update))
	mux.Handle("DELETE /clients/{id}", protected(ch.Delete))
	mux.Handle("GET /clients/{id}/invoices", protected(ch.ListInvoices))

	ih := handlers.NewInvoiceHandler(db, services.NewInvoiceService(db, currency))
	mux.Handle("GET /invoices", protected(ih.List))
	mux.Handle("POST /invoices", protected(ih.Create))
	mux.Handle("GET /invoices/{id}", protected(ih.Get))
	mux.Handle("PUT /invoices/{id}", protected(ih.Update))
	mux.Handle("DELETE /invoices/{id}", protected(ih.Delete))
	mux.Handle("GET /invoices/{id}/line-items", protected(ih.ListLineItems))
	mux.Handle("PUT /invoices/{id}/line-items", protected(ih.ReplaceLineItems))

	sh := handlers.NewSettingsHandler(db)
	mux.Handle("GET /settings", protected(sh.Get))
	mux.Handle("PUT /settings", protected(sh.Upsert))

	return auth.Middleware(withRecover(withLogging(mux)))
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
