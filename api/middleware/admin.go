package middleware

import (
	"net/http"

	"github.com/vintagegrove/backend/api/responses"
	"github.com/vintagegrove/backend/pkg/config"
	pkgerrors "github.com/vintagegrove/backend/pkg/errors"
	"github.com/vintagegrove/backend/pkg/logger"
)

// AdminOnly gates admin routes on the boolean session cookie set by the
// login handler. Cart and tracking flows never depend on it.
func AdminOnly(cfg config.AdminConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cfg.SessionCookie)
			if err != nil || cookie.Value != "true" {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeUnauthorized, "admin session required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
