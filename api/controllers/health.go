package controllers

import (
	"context"
	"net/http"

	"github.com/suruagyvieira/dropmasters-alpha/api/responses"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/config"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Healthz reports liveness plus dependency reachability.
func Healthz(cfg *config.Config, db, redis pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-DropMasters-Env", cfg.App.Env)

		deps := map[string]string{}
		healthy := true
		for name, p := range map[string]pinger{"db": db, "redis": redis} {
			if p == nil {
				deps[name] = "disabled"
				continue
			}
			if err := p.Ping(r.Context()); err != nil {
				deps[name] = "down"
				healthy = false
				continue
			}
			deps[name] = "up"
		}

		status := http.StatusOK
		state := "live"
		if !healthy {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status":       state,
			"dependencies": deps,
		})
	}
}
