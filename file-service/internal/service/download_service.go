package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/RubachokBoss/plagiarism-checker/file-service/internal/models"
	"github.com/RubachokBoss/plagiarism-checker/file-service/internal/repository"
	"github.com/RubachokBoss/plagiarism-checker/pkg/hash"
	"github.com/rs/zerolog"
)

type DownloadService interface {
	DownloadFile(ctx context.Context, fileName string) (*models.DownloadFileResponse, error)
}

type downloadService struct {
	storageRepo repository.StorageRepository
	hasher      hash.Hasher
	logger      zerolog.Logger
}

func NewDownloadService(storageRepo repository.StorageRepository, hasher hash.Hasher, logger zerolog.Logger) DownloadService {
	return &downloadService{
		storageRepo: storageRepo,
		hasher:      hasher,
		logger:      logger.With().Str("component", "download_service").Logger(),
	}
}

func (s *downloadService) DownloadFile(ctx context.Context, fileName string) (*models.DownloadFileResponse, error) {
	if err := validateFileName(fileName); err != nil {
		return nil, err
	}

	reader, size, err := s.storageRepo.Open(ctx, fileName)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to download file from storage: %w", err)
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}

	fileHash, err := s.hasher.Calculate(content)
	if err != nil {
		// Без ETag файл всё равно отдаём.
		s.logger.Warn().Err(err).Str("file_name", fileName).Msg("Failed to calculate file hash")
	}

	s.logger.Debug().
		Str("file_name", fileName).
		Int64("size", size).
		Msg("File downloaded")

	return &models.DownloadFileResponse{
		FileName: fileName,
		Content:  content,
		Size:     int64(len(content)),
		Hash:     fileHash,
	}, nil
}

func validateFileName(fileName string) error {
	if fileName == "" || fileName == "." || fileName == ".." || strings.ContainsAny(fileName, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidFileName, fileName)
	}
	return nil
}
