package service

import (
	"errors"

	"github.com/RubachokBoss/plagiarism-checker/file-service/internal/repository"
)

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file size exceeds limit")
	ErrInvalidFileName = errors.New("invalid file name")
	ErrFileNotFound    = repository.ErrFileNotFound
)
