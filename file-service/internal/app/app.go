package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/RubachokBoss/plagiarism-checker/file-service/internal/config"
	"github.com/RubachokBoss/plagiarism-checker/file-service/internal/delivery/httpd"
	"github.com/RubachokBoss/plagiarism-checker/file-service/internal/repository"
	"github.com/RubachokBoss/plagiarism-checker/file-service/internal/service"
	"github.com/RubachokBoss/plagiarism-checker/pkg/hash"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

type App struct {
	server *http.Server
	logger zerolog.Logger
	config *config.Config
}

func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	storageRepo, err := newStorage(cfg, log)
	if err != nil {
		return nil, err
	}

	hasher, err := hash.NewFileHasher(hash.HashAlgorithm(cfg.Hash.Algorithm))
	if err != nil {
		return nil, err
	}

	uploadService := service.NewUploadService(
		storageRepo,
		hasher,
		log,
		service.UploadConfig{MaxUploadSize: cfg.Server.MaxUploadSize},
	)
	downloadService := service.NewDownloadService(storageRepo, hasher, log)

	handler := httpd.NewHandler(
		uploadService,
		downloadService,
		storageRepo,
		cfg.Server.MaxUploadSize,
		log,
	)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	useRequestTimeout(router, cfg.Server.RequestTimeout)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server: server,
		logger: log,
		config: cfg,
	}, nil
}

func newStorage(cfg *config.Config, log zerolog.Logger) (repository.StorageRepository, error) {
	switch cfg.Storage.Provider {
	case config.StorageProviderMinIO:
		return repository.NewMinIORepository(repository.MinIOConfig{
			Endpoint:       cfg.MinIO.Endpoint,
			AccessKey:      cfg.MinIO.AccessKey,
			SecretKey:      cfg.MinIO.SecretKey,
			Bucket:         cfg.Storage.BucketName,
			Region:         cfg.Storage.Region,
			UseSSL:         cfg.MinIO.UseSSL,
			ConnectTimeout: cfg.MinIO.Timeout,
		}, log)
	default:
		return repository.NewLocalRepository(cfg.Storage.Root, log)
	}
}

// chi.Timeout(0) отдаёт уже истёкший контекст, поэтому ноль означает "без дедлайна".
func useRequestTimeout(router chi.Router, timeout time.Duration) {
	if timeout > 0 {
		router.Use(middleware.Timeout(timeout))
	}
}

func (a *App) Run() error {
	a.logger.Info().Msgf("Starting file service on %s", a.config.Server.Address)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down file service...")
	return a.server.Shutdown(ctx)
}
