package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/coloriginz/supplier-onboarding-backend/api/responses"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/config"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/logger"
)

type HealthPinger interface {
	Ping(ctx context.Context) error
}

// HealthLive reports process liveness.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"status": "ok",
			"env":    cfg.App.Env,
		})
	}
}

// HealthReady checks the dependencies the API cannot serve without. Optional
// dependencies (nil pingers) are skipped.
func HealthReady(logg *logger.Logger, deps map[string]HealthPinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		healthy := true
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				healthy = false
				checks[name] = "unavailable"
				if logg != nil {
					logg.Error(logg.WithField(ctx, "dependency", name), "readiness check failed", err)
				}
				continue
			}
			checks[name] = "ok"
		}

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

// ReadinessDeps assembles the named dependency pingers for HealthReady.
func ReadinessDeps(db, redis, storage HealthPinger) map[string]HealthPinger {
	return map[string]HealthPinger{
		"database": db,
		"redis":    redis,
		"storage":  storage,
	}
}
