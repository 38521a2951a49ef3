package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/suruagyvieira/dropmasters-alpha/api/responses"
	"github.com/suruagyvieira/dropmasters-alpha/internal/repricer"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/db/models"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/logger"
)

type cycleRunner interface {
	Run(ctx context.Context, force bool) error
}

type eventReader interface {
	Recent(ctx context.Context, limit int) ([]models.EventLog, error)
}

// ForcePivot triggers a repricing cycle outside the schedule. The cycle
// runs detached from the request so a slow discovery scrape cannot hold
// the admin connection; overlap is settled by the cycle's own entry guard.
func ForcePivot(job cycleRunner, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			if err := job.Run(ctx, true); err != nil && logg != nil {
				logg.Error(ctx, "forced cycle failed", err)
			}
		}()
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]string{"status": "triggered"})
	}
}

// AutonomyState exposes the repricer state and recent operational events.
func AutonomyState(state *repricer.State, events eventReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{"state": state.Snapshot()}
		if events != nil {
			recent, err := events.Recent(r.Context(), 20)
			if err != nil {
				if logg != nil {
					logg.Error(r.Context(), "event log read failed", err)
				}
			} else {
				payload["events"] = recent
			}
		}
		responses.WriteSuccess(w, payload)
	}
}
