package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/RubachokBoss/plagiarism-checker/file-service/internal/app"
	"github.com/RubachokBoss/plagiarism-checker/file-service/internal/config"
	"github.com/RubachokBoss/plagiarism-checker/pkg/logger"
)

const serviceName = "file-service"

func main() {
	log := logger.New(serviceName)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log = logger.NewWithConfig(serviceName, cfg.Logging.Level, cfg.Logging.Pretty, cfg.Logging.NoColor)

	application, err := app.New(cfg, log)
	if err != nil {
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

	log.Info().Msg("File service stopped")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
