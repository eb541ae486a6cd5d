package httpd

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/RubachokBoss/plagiarism-checker/analysis-service/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	analysisService service.AnalysisService
	db              Pinger
	logger          zerolog.Logger
}

func NewHandler(analysisService service.AnalysisService, db Pinger, logger zerolog.Logger) *Handler {
	return &Handler{
		analysisService: analysisService,
		db:              db,
		logger:          logger.With().Str("component", "http_handler").Logger(),
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)
	router.Post("/analyze", h.Analyze)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
	})
}
