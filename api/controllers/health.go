package controllers

import (
	"context"
	"net/http"

	"github.com/vintagegrove/backend/api/responses"
	"github.com/vintagegrove/backend/pkg/config"
)

// Pinger is anything readiness can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-VintageGrove-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports per-dependency status. Any failing probe flips the
// response to 503 so the load balancer stops routing here.
func HealthReady(cfg *config.Config, db Pinger, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-VintageGrove-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true
		probe := func(name string, p Pinger) {
			if p == nil {
				checks[name] = "skipped"
				return
			}
			if err := p.Ping(r.Context()); err != nil {
				checks[name] = "down"
				healthy = false
				return
			}
			checks[name] = "up"
		}
		probe("database", db)
		probe("redis", cache)

		status := http.StatusOK
		state := "ready"
		if !healthy {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": state,
			"checks": checks,
		})
	}
}
