package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New возвращает логгер для раннего старта, пока конфигурация ещё не загружена.
func New(service string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}

	return zerolog.New(output).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}

func NewWithConfig(service, level string, pretty, noColor bool) zerolog.Logger {
	return newLogger(os.Stdout, service, level, pretty, noColor)
}

func newLogger(out io.Writer, service, level string, pretty, noColor bool) zerolog.Logger {
	if pretty {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    noColor,
		}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}
