package repository

import (
	"context"
	"errors"
	"io"
)

var ErrFileNotFound = errors.New("file not found")

// StorageRepository хранит файлы по имени. Имена уникальны, перезапись не ожидается.
type StorageRepository interface {
	Save(ctx context.Context, fileName string, content io.Reader, size int64) error
	// Open возвращает ErrFileNotFound, если файла нет.
	Open(ctx context.Context, fileName string) (io.ReadCloser, int64, error)
	Ping(ctx context.Context) error
}
