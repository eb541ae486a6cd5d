package service

import (
	"context"
	"fmt"

	"github.com/RubachokBoss/plagiarism-checker/api-gateway/internal/models"
	"github.com/rs/zerolog"
)

type AssignmentReportReader interface {
	ListAssignmentReports(ctx context.Context, assignmentName string) ([]models.AssignmentReport, error)
}

type ReportService interface {
	GetAssignmentReports(ctx context.Context, assignmentName string) ([]models.AssignmentReport, error)
}

type reportService struct {
	repo   AssignmentReportReader
	logger zerolog.Logger
}

func NewReportService(repo AssignmentReportReader, logger zerolog.Logger) ReportService {
	return &reportService{
		repo:   repo,
		logger: logger.With().Str("component", "report_service").Logger(),
	}
}

// GetAssignmentReports возвращает отчёты по заданию в порядке создания.
// Неизвестное задание - пустой список, не ошибка.
func (s *reportService) GetAssignmentReports(ctx context.Context, assignmentName string) ([]models.AssignmentReport, error) {
	reports, err := s.repo.ListAssignmentReports(ctx, assignmentName)
	if err != nil {
		s.logger.Error().Err(err).Str("assignment", assignmentName).Msg("Failed to list assignment reports")
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	if reports == nil {
		reports = []models.AssignmentReport{}
	}
	return reports, nil
}
