package service

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/RubachokBoss/plagiarism-checker/file-service/internal/models"
	"github.com/RubachokBoss/plagiarism-checker/file-service/internal/repository"
	"github.com/RubachokBoss/plagiarism-checker/pkg/hash"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type UploadService interface {
	UploadFileBytes(ctx context.Context, originalName string, fileBytes []byte) (*models.UploadFileResponse, error)
}

type uploadService struct {
	storageRepo repository.StorageRepository
	hasher      hash.Hasher
	logger      zerolog.Logger
	config      UploadConfig
}

type UploadConfig struct {
	// MaxUploadSize <= 0 снимает ограничение.
	MaxUploadSize int64
}

func NewUploadService(
	storageRepo repository.StorageRepository,
	hasher hash.Hasher,
	logger zerolog.Logger,
	config UploadConfig,
) UploadService {
	return &uploadService{
		storageRepo: storageRepo,
		hasher:      hasher,
		logger:      logger.With().Str("component", "upload_service").Logger(),
		config:      config,
	}
}

func (s *uploadService) UploadFileBytes(ctx context.Context, originalName string, fileBytes []byte) (*models.UploadFileResponse, error) {
	if len(fileBytes) == 0 {
		return nil, ErrEmptyFile
	}
	if s.config.MaxUploadSize > 0 && int64(len(fileBytes)) > s.config.MaxUploadSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, s.config.MaxUploadSize)
	}

	fileName := generateUniqueFileName(originalName)

	if err := s.storageRepo.Save(ctx, fileName, bytes.NewReader(fileBytes), int64(len(fileBytes))); err != nil {
		return nil, fmt.Errorf("failed to upload file to storage: %w", err)
	}

	fileHash, err := s.hasher.Calculate(fileBytes)
	if err != nil {
		s.logger.Warn().Err(err).Str("file_name", fileName).Msg("Failed to calculate file hash")
	}

	s.logger.Info().
		Str("file_name", fileName).
		Str("original_name", originalName).
		Str("hash", fileHash).
		Int("size", len(fileBytes)).
		Msg("File uploaded successfully")

	return &models.UploadFileResponse{
		FileName:     fileName,
		OriginalName: originalName,
	}, nil
}

// generateUniqueFileName даёт имя вида <uuid>_<basename>. Путь клиента отбрасывается.
func generateUniqueFileName(originalName string) string {
	name := filepath.Base(strings.ReplaceAll(originalName, `\`, "/"))
	if name == "." || name == "/" || name == ".." {
		name = "file"
	}
	return uuid.New().String() + "_" + name
}
