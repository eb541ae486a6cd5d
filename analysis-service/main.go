package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/RubachokBoss/plagiarism-checker/analysis-service/internal/app"
	"github.com/RubachokBoss/plagiarism-checker/analysis-service/internal/config"
	"github.com/RubachokBoss/plagiarism-checker/pkg/database"
	"github.com/RubachokBoss/plagiarism-checker/pkg/logger"
)

const serviceName = "analysis-service"

func main() {
	log := logger.New(serviceName)

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log = logger.NewWithConfig(serviceName, cfg.Logging.Level, cfg.Logging.Pretty, cfg.Logging.NoColor)

	// Один пул соединений на процесс
	db, err := database.NewPostgres(cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	if err := database.Ping(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	application, err := app.New(cfg, log, db)
	if err != nil {
		db.Close()
		log.Fatal().Err(err).Msg("Failed to create application")
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Run()
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("Failed to run application")
			exitCode = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown gracefully")
		exitCode = 1
	}

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
