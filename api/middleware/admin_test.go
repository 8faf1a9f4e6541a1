package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vintagegrove/backend/pkg/config"
	"github.com/vintagegrove/backend/pkg/logger"
)

func TestAdminOnly(t *testing.T) {
	cfg := config.AdminConfig{SessionCookie: "admin_session"}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	handler := AdminOnly(cfg, logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("missing cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/v1/ping", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("wrong value", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/ping", nil)
		req.AddCookie(&http.Cookie{Name: "admin_session", Value: "1"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("valid session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/ping", nil)
		req.AddCookie(&http.Cookie{Name: "admin_session", Value: "true"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})
}
