package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vintagegrove/backend/pkg/config"
	"github.com/vintagegrove/backend/pkg/security"
)

func adminTestConfig(t *testing.T, password string) config.AdminConfig {
	t.Helper()
	cfg := config.AdminConfig{
		SessionCookie:    "admin_session",
		SessionTTL:       time.Hour,
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
	hash, err := security.HashPassword(password, cfg)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	cfg.PasswordHash = hash
	return cfg
}

func TestAdminLoginSetsSessionCookie(t *testing.T) {
	cfg := adminTestConfig(t, "correct horse")

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/login", strings.NewReader(`{"password":"correct horse"}`))
	rec := httptest.NewRecorder()
	AdminLogin(cfg, testLog()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == cfg.SessionCookie {
			session = c
		}
	}
	if session == nil || session.Value != "true" {
		t.Fatalf("expected boolean session cookie, got %+v", session)
	}
	if !session.HttpOnly || session.SameSite != http.SameSiteStrictMode {
		t.Fatal("session cookie must be http-only and same-site strict")
	}
}

func TestAdminLoginRejectsBadPassword(t *testing.T) {
	cfg := adminTestConfig(t, "correct horse")

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/login", strings.NewReader(`{"password":"battery staple"}`))
	rec := httptest.NewRecorder()
	AdminLogin(cfg, testLog()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("failed logins must not set cookies")
	}
}

func TestAdminLogoutExpiresCookie(t *testing.T) {
	cfg := config.AdminConfig{SessionCookie: "admin_session"}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/logout", nil)
	rec := httptest.NewRecorder()
	AdminLogout(cfg).ServeHTTP(rec, req)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Fatalf("expected an expired session cookie, got %+v", cookies)
	}
}

func TestAdminTrackingConfigRedactsToken(t *testing.T) {
	cfg := config.MetaConfig{PixelID: "123456", AccessToken: "secret", APIVersion: "v21.0"}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/tracking/config", nil)
	rec := httptest.NewRecorder()
	AdminTrackingConfig(cfg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "secret") {
		t.Fatal("access token must never appear in the response")
	}
	if !strings.Contains(body, `"pixelConfigured":true`) {
		t.Fatalf("expected configured flag, got %s", body)
	}
}
