package controllers

import (
	"net/http"
	"time"

	"github.com/vintagegrove/backend/api/responses"
	"github.com/vintagegrove/backend/api/validators"
	"github.com/vintagegrove/backend/pkg/config"
	pkgerrors "github.com/vintagegrove/backend/pkg/errors"
	"github.com/vintagegrove/backend/pkg/logger"
	"github.com/vintagegrove/backend/pkg/security"
)

type adminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// AdminLogin verifies the configured password hash and sets the boolean
// session cookie gating admin routes.
func AdminLogin(cfg config.AdminConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.PasswordHash == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin auth not configured"))
			return
		}

		var payload adminLoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ok, err := security.VerifyPassword(payload.Password, cfg.PasswordHash)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password"))
			return
		}
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials"))
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     cfg.SessionCookie,
			Value:    "true",
			Path:     "/",
			Expires:  time.Now().Add(cfg.SessionTTL),
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
		})
		responses.WriteSuccess(w, map[string]bool{"authenticated": true})
	}
}

// AdminLogout expires the session cookie.
func AdminLogout(cfg config.AdminConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     cfg.SessionCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
		})
		responses.WriteSuccess(w, map[string]bool{"authenticated": false})
	}
}

// AdminTrackingConfig exposes the tracking setup for debugging: whether the
// conversions leg is wired, which API version, and any test event code. The
// access token never leaves the process.
func AdminTrackingConfig(cfg config.MetaConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{
			"pixelConfigured": cfg.Configured(),
			"pixelId":         cfg.PixelID,
			"apiVersion":      cfg.APIVersion,
			"testEventCode":   cfg.TestEventCode,
			"pixelEnabled":    cfg.PixelEnabled,
		})
	}
}
