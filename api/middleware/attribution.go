package middleware

import (
	"net/http"
	"time"

	"github.com/vintagegrove/backend/internal/tracking"
	"github.com/vintagegrove/backend/pkg/config"
)

// Attribution captures visitor identity signals on every request:
//   - an fbclid query parameter becomes the _fbc cookie in Meta's click
//     format; the most recently captured click id always wins,
//   - a session id cookie is minted once and reused for the session's
//     lifetime as an extra dedup aid.
//
// The _fbp cookie belongs to the external pixel script and is never written
// here.
func Attribution(cfg config.AttributionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := time.Now()

			if fbclid := r.URL.Query().Get(tracking.ClickIDParam); fbclid != "" {
				fbc := tracking.FormatFbc(fbclid, now)
				http.SetCookie(w, &http.Cookie{
					Name:     tracking.CookieFbc,
					Value:    fbc,
					Path:     "/",
					Expires:  now.Add(cfg.ClickIDCookieTTL),
					HttpOnly: false, // the pixel script reads it too
					SameSite: http.SameSiteLaxMode,
				})
				// Later handlers in this same request see the fresh value.
				setRequestCookie(r, tracking.CookieFbc, fbc)
			}

			if _, err := r.Cookie(tracking.CookieSession); err != nil {
				sessionID := tracking.NewSessionID(now)
				http.SetCookie(w, &http.Cookie{
					Name:     tracking.CookieSession,
					Value:    sessionID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
				setRequestCookie(r, tracking.CookieSession, sessionID)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// setRequestCookie replaces any same-named cookie on the inbound request so
// downstream reads observe the freshly captured value.
func setRequestCookie(r *http.Request, name, value string) {
	kept := make([]*http.Cookie, 0, len(r.Cookies()))
	for _, c := range r.Cookies() {
		if c.Name != name {
			kept = append(kept, c)
		}
	}
	r.Header.Del("Cookie")
	for _, c := range kept {
		r.AddCookie(c)
	}
	r.AddCookie(&http.Cookie{Name: name, Value: value})
}
