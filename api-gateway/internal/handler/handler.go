package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/RubachokBoss/plagiarism-checker/api-gateway/internal/models"
	"github.com/RubachokBoss/plagiarism-checker/api-gateway/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Submitter interface {
	Submit(ctx context.Context, req *models.SubmitRequest) *service.Outcome
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	router        *chi.Mux
	pipeline      Submitter
	submissions   service.SubmissionService
	reports       service.ReportService
	db            Pinger
	maxUploadSize int64
	logger        zerolog.Logger
}

type Config struct {
	// MaxUploadSize - предел размера файла в POST /api/submissions; 0 - без предела.
	MaxUploadSize int64
}

func NewHandler(
	pipeline Submitter,
	submissions service.SubmissionService,
	reports service.ReportService,
	db Pinger,
	cfg Config,
	logger zerolog.Logger,
) *Handler {
	h := &Handler{
		router:        chi.NewRouter(),
		pipeline:      pipeline,
		submissions:   submissions,
		reports:       reports,
		db:            db,
		maxUploadSize: cfg.MaxUploadSize,
		logger:        logger.With().Str("component", "handler").Logger(),
	}

	h.setupRoutes()
	return h
}

func (h *Handler) setupRoutes() {
	h.router.Get("/health", h.HealthCheck)
	h.router.Get("/ready", h.ReadyCheck)
	h.router.Get("/live", h.LiveCheck)
}

func (h *Handler) GetRouter() *chi.Mux {
	return h.router
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}
