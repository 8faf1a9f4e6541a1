package tracking

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

// Cookie names read and written by the attribution layer. The _fbp cookie is
// set by the external pixel script; this pipeline only ever reads it.
const (
	CookieFbp     = "_fbp"
	CookieFbc     = "_fbc"
	CookieSession = "vg_session"

	// ClickIDParam is the query parameter inspected on every request.
	ClickIDParam = "fbclid"
)

// FormatFbc renders a captured click ID in Meta's click cookie layout:
// fb.1.<capture-millis>.<fbclid>.
func FormatFbc(fbclid string, capturedAt time.Time) string {
	return fmt.Sprintf("fb.1.%d.%s", capturedAt.UnixMilli(), fbclid)
}

// NewSessionID mints the per-session dedup aid: capture time plus randomness.
func NewSessionID(now time.Time) string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in real trouble; fall back
		// to a time-only id rather than aborting identity capture.
		return fmt.Sprintf("%d", now.UnixMilli())
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), hex.EncodeToString(buf))
}

// IdentityFromRequest assembles the visitor signals available on a request:
// attribution cookies plus the server-observable context the browser cannot
// report about itself.
func IdentityFromRequest(r *http.Request) Identity {
	identity := Identity{
		ClientIP:  ClientIP(r),
		UserAgent: r.UserAgent(),
	}
	if c, err := r.Cookie(CookieFbp); err == nil {
		identity.Fbp = c.Value
	}
	if c, err := r.Cookie(CookieFbc); err == nil {
		identity.Fbc = c.Value
	}
	if c, err := r.Cookie(CookieSession); err == nil {
		identity.SessionID = c.Value
	}
	return identity
}

// ClientIP resolves the caller address from forwarding headers, never from
// the request body: x-forwarded-for first, then x-real-ip, then the socket.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	if real := strings.TrimSpace(r.Header.Get("X-Real-Ip")); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
