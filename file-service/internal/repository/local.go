package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

type LocalRepository struct {
	root   string
	logger zerolog.Logger
}

func NewLocalRepository(root string, logger zerolog.Logger) (*LocalRepository, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}

	logger.Info().Str("root", root).Msg("Using local file storage")

	return &LocalRepository{
		root:   root,
		logger: logger.With().Str("component", "local_storage").Logger(),
	}, nil
}

func (r *LocalRepository) Save(ctx context.Context, fileName string, content io.Reader, _ int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(r.root, fileName)
	// Пишем во временный файл и переименовываем, чтобы читатель не увидел недописанный файл.
	tmp, err := os.CreateTemp(r.root, ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, content)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}

	r.logger.Debug().
		Str("file", fileName).
		Int64("size", written).
		Msg("File saved")

	return nil
}

func (r *LocalRepository) Open(ctx context.Context, fileName string) (io.ReadCloser, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	f, err := os.Open(filepath.Join(r.root, fileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, ErrFileNotFound
		}
		return nil, 0, fmt.Errorf("failed to open file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, 0, ErrFileNotFound
	}

	return f, info.Size(), nil
}

func (r *LocalRepository) Ping(_ context.Context) error {
	info, err := os.Stat(r.root)
	if err != nil {
		return fmt.Errorf("storage root unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage root %s is not a directory", r.root)
	}
	return nil
}
