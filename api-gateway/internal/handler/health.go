package handler

import (
	"net/http"
	"time"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
}

type ReadyResponse struct {
	Status    string          `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
	Services  []ServiceStatus `json:"services,omitempty"`
}

type ServiceStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   "api-gateway",
		Version:   "1.0.0",
	})
}

// ReadyCheck проверяет доступность БД; соседние сервисы проверяются своими /health.
func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	db := ServiceStatus{Name: "postgres", Status: "up"}
	status, code := "ready", http.StatusOK

	if err := h.db.Ping(r.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("Database is not ready")
		db.Status, db.Error = "down", err.Error()
		status, code = "not_ready", http.StatusServiceUnavailable
	}

	writeJSON(w, code, ReadyResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Services:  []ServiceStatus{db},
	})
}

func (h *Handler) LiveCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now().UTC(),
	})
}
