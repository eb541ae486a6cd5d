package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/RubachokBoss/plagiarism-checker/api-gateway/internal/app"
	"github.com/RubachokBoss/plagiarism-checker/api-gateway/internal/config"
	"github.com/RubachokBoss/plagiarism-checker/pkg/database"
	"github.com/RubachokBoss/plagiarism-checker/pkg/logger"
	"github.com/rs/zerolog"
)

const serviceName = "api-gateway"

const usage = "usage: api-gateway [serve | migrate up|down|version]"

func main() {
	log := logger.New(serviceName)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log = logger.NewWithConfig(serviceName, cfg.Logging.Level, cfg.Logging.Pretty, cfg.Logging.NoColor)

	args := os.Args[1:]
	if len(args) == 0 {
		args = []string{"serve"}
	}

	// Один пул соединений на процесс
	db, err := database.NewPostgres(cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	switch args[0] {
	case "serve":
		os.Exit(serve(cfg, log, db))
	case "migrate":
		if len(args) < 2 {
			db.Close()
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		if err := runMigrations(cfg, log, db, args[1]); err != nil {
			log.Fatal().Err(err).Str("command", args[1]).Msg("Migration failed")
		}
	default:
		db.Close()
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}

func serve(cfg *config.Config, log zerolog.Logger, db *sql.DB) int {
	if err := database.Ping(context.Background(), db); err != nil {
		db.Close()
		log.Error().Err(err).Msg("Failed to ping database")
		return 1
	}
	log.Info().Msg("Database connection established")

	application, err := app.New(cfg, log, db)
	if err != nil {
		db.Close()
		log.Error().Err(err).Msg("Failed to create application")
		return 1
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

	return exitCode
}

// runMigrations закрывает db: мигратор владеет пулом до конца команды.
func runMigrations(cfg *config.Config, log zerolog.Logger, db *sql.DB, command string) error {
	m, err := database.NewMigrator(db, cfg.Postgres.MigrationsPath)
	if err != nil {
		db.Close()
		return err
	}
	defer m.Close()

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "version":
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Schema version")
	return nil
}
