package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/josh-kwaku/loan-servicing/internal/logging"
)

type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	db      *sql.DB
	version string
	checks  map[string]HealthCheck
}

func NewHealthHandler(db *sql.DB, version string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		version: version,
		checks:  map[string]HealthCheck{},
	}
}

// WithCheck adds an optional dependency to the readiness probe.
func (h *HealthHandler) WithCheck(name string, check HealthCheck) *HealthHandler {
	h.checks[name] = check
	return h
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	httpStatus := http.StatusOK
	results := map[string]string{"database": "ok"}

	if err := h.db.PingContext(ctx); err != nil {
		log.Warn("readiness check failed: database unreachable", "error", err)
		results["database"] = "down"
		httpStatus = http.StatusServiceUnavailable
	}
	for name, check := range h.checks {
		results[name] = "ok"
		if err := check(ctx); err != nil {
			log.Warn("readiness check failed", "check", name, "error", err)
			results[name] = "down"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	overallStatus := "ok"
	if httpStatus != http.StatusOK {
		overallStatus = "down"
	}

	RespondJSON(w, httpStatus, map[string]any{
		"status":    overallStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    results,
	})
}
