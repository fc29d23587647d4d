package handler

import (
	"net/http"

	"github.com/jejomarc/askjejo/internal/api/response"
	"github.com/jejomarc/askjejo/internal/repository/postgres"
)

// HealthCheck returns a simple liveness response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]any{"status": "ok"})
}

// ReadyCheck returns readiness status including database connectivity
func ReadyCheck(db *postgres.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "database not ready")
			return
		}

		response.OK(w, map[string]any{"status": "ready"})
	}
}
