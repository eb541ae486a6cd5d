package httpd

import (
	"github.com/RubachokBoss/plagiarism-checker/file-service/internal/repository"
	"github.com/RubachokBoss/plagiarism-checker/file-service/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Handler struct {
	uploadService   service.UploadService
	downloadService service.DownloadService
	storageRepo     repository.StorageRepository
	maxUploadSize   int64
	logger          zerolog.Logger
}

func NewHandler(
	uploadService service.UploadService,
	downloadService service.DownloadService,
	storageRepo repository.StorageRepository,
	maxUploadSize int64,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		uploadService:   uploadService,
		downloadService: downloadService,
		storageRepo:     storageRepo,
		maxUploadSize:   maxUploadSize,
		logger:          logger.With().Str("component", "http_handler").Logger(),
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)

	router.Route("/files", func(r chi.Router) {
		r.Post("/", h.UploadFile)
		r.Get("/{fileName}", h.DownloadFile)
	})
}
