package app

import (
	"context"
	"database/sql"

	"github.com/RubachokBoss/plagiarism-checker/api-gateway/internal/config"
	"github.com/RubachokBoss/plagiarism-checker/api-gateway/internal/handler"
	"github.com/RubachokBoss/plagiarism-checker/api-gateway/internal/middleware"
	"github.com/RubachokBoss/plagiarism-checker/api-gateway/internal/proxy"
	"github.com/RubachokBoss/plagiarism-checker/api-gateway/internal/repository"
	"github.com/RubachokBoss/plagiarism-checker/api-gateway/internal/server"
	"github.com/RubachokBoss/plagiarism-checker/api-gateway/internal/service"
	"github.com/RubachokBoss/plagiarism-checker/api-gateway/internal/service/integration"
	"github.com/rs/zerolog"
)

type App struct {
	server *server.Server
	logger zerolog.Logger
	config *config.Config
	db     *sql.DB
}

func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	submissionRepo := repository.NewSubmissionRepository(db, log)
	fileClient := integration.NewFileClient(cfg.FileStorage.BaseURL, cfg.FileStorage.Timeout, log)
	analysisClient := integration.NewAnalysisClient(cfg.Analysis.BaseURL, cfg.Analysis.Timeout, log)

	pipeline, err := service.NewSubmissionPipeline(fileClient, analysisClient, submissionRepo, log)
	if err != nil {
		return nil, err
	}
	submissionService := service.NewSubmissionService(submissionRepo, fileClient, cfg.WordCloud.BaseURL, log)
	reportService := service.NewReportService(submissionRepo, log)

	h := handler.NewHandler(
		pipeline,
		submissionService,
		reportService,
		submissionRepo,
		handler.Config{MaxUploadSize: cfg.Server.MaxUploadSize},
		log,
	)

	srv := server.NewServer(server.ServerConfig{
		Address:      cfg.Server.Address,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}, h.GetRouter(), log)

	// важно: middleware должны быть навешаны до регистрации роутов
	srv.SetupMiddleware(server.Middleware{
		CORS: middleware.NewCORS(
			cfg.CORS.AllowedOrigins,
			cfg.CORS.AllowedMethods,
			cfg.CORS.AllowedHeaders,
			cfg.CORS.ExposedHeaders,
			cfg.CORS.AllowCredentials,
			cfg.CORS.MaxAge,
		),
		Logger:   middleware.RequestLogger(log),
		Timeout:  middleware.Timeout(cfg.Server.RequestTimeout),
		Recovery: middleware.Recovery(log),
	})

	fileProxy, err := proxy.NewProxy(
		cfg.FileStorage.BaseURL,
		integration.FileServiceName,
		log,
		proxy.WithTimeout(cfg.FileStorage.Timeout),
	)
	if err != nil {
		return nil, err
	}

	h.SetupRoutes(fileProxy, middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst, log))

	return &App{
		server: srv,
		logger: log,
		config: cfg,
		db:     db,
	}, nil
}

func (a *App) Run() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to shutdown HTTP server")
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}

	a.logger.Info().Msg("API Gateway stopped")
	return err
}
