package httpd

import (
	"net/http"
	"time"
)

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	dbStatus := "ok"
	if err := h.db.Ping(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("Database health check failed")
		status = http.StatusServiceUnavailable
		dbStatus = "unavailable"
	}

	response := map[string]interface{}{
		"status":    http.StatusText(status),
		"service":   "analysis-service",
		"database":  dbStatus,
		"timestamp": time.Now().UTC(),
	}

	writeJSON(w, status, response)
}
