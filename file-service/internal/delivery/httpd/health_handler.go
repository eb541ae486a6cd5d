package httpd

import (
	"net/http"
	"time"
)

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	storageStatus := "ok"
	if err := h.storageRepo.Ping(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("Storage health check failed")
		status = http.StatusServiceUnavailable
		storageStatus = "unavailable"
	}

	writeJSON(w, status, map[string]interface{}{
		"status":    http.StatusText(status),
		"service":   "file-service",
		"storage":   storageStatus,
		"timestamp": time.Now().UTC(),
	})
}
