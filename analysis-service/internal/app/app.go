package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/RubachokBoss/plagiarism-checker/analysis-service/internal/config"
	"github.com/RubachokBoss/plagiarism-checker/analysis-service/internal/delivery/httpd"
	"github.com/RubachokBoss/plagiarism-checker/analysis-service/internal/repository"
	"github.com/RubachokBoss/plagiarism-checker/analysis-service/internal/service"
	"github.com/RubachokBoss/plagiarism-checker/analysis-service/internal/service/analyzer"
	"github.com/RubachokBoss/plagiarism-checker/analysis-service/internal/worker"
	"github.com/RubachokBoss/plagiarism-checker/analysis-service/internal/worker/queue"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

type App struct {
	server       *http.Server
	logger       zerolog.Logger
	config       *config.Config
	db           *sql.DB
	workerPool   *worker.WorkerPool
	rabbitMQRepo repository.RabbitMQRepository
}

func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	submissionRepo := repository.NewSubmissionRepository(db, log)
	engine := analyzer.NewEngine(submissionRepo, cfg.Analysis.Workers, log)

	var (
		publisher    service.EventPublisher
		pool         service.TaskSubmitter
		workerPool   *worker.WorkerPool
		rabbitMQRepo repository.RabbitMQRepository
	)
	if cfg.RabbitMQ.Enabled {
		var err error
		rabbitMQRepo, err = repository.NewRabbitMQRepository(cfg.RabbitMQ.URL, log)
		if err != nil {
			return nil, err
		}
		if err := rabbitMQRepo.SetupExchange(cfg.RabbitMQ.Exchange); err != nil {
			rabbitMQRepo.Close()
			return nil, err
		}

		publisher = queue.NewRabbitMQPublisher(rabbitMQRepo.Channel(), cfg.RabbitMQ.Exchange, cfg.RabbitMQ.PublishTimeout, log)
		workerPool = worker.NewWorkerPool(cfg.Worker.MaxWorkers, cfg.Worker.QueueSize, cfg.Worker.SubmitTimeout, log)
		pool = workerPool
	} else {
		log.Info().Msg("RabbitMQ disabled, analysis events will not be published")
	}

	analysisService := service.NewAnalysisService(engine, publisher, pool, log)
	handler := httpd.NewHandler(analysisService, submissionRepo, log)

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
		server:       server,
		logger:       log,
		config:       cfg,
		db:           db,
		workerPool:   workerPool,
		rabbitMQRepo: rabbitMQRepo,
	}, nil
}

// chi.Timeout(0) отдаёт уже истёкший контекст, поэтому ноль означает "без дедлайна".
func useRequestTimeout(router chi.Router, timeout time.Duration) {
	if timeout > 0 {
		router.Use(middleware.Timeout(timeout))
	}
}

func (a *App) Run() error {
	if a.workerPool != nil {
		a.workerPool.Start()
	}

	a.logger.Info().Msgf("Starting analysis service on %s", a.config.Server.Address)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down analysis service...")

	// Сначала HTTP: новые задачи в пул после этого не появятся.
	err := a.server.Shutdown(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to shutdown HTTP server")
	}

	if a.workerPool != nil {
		a.workerPool.Stop()
	}

	if a.rabbitMQRepo != nil {
		if err := a.rabbitMQRepo.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}

	a.logger.Info().Msg("Analysis service stopped")
	return err
}
