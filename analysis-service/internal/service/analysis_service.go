package service

import (
	"context"
	"time"

	"github.com/RubachokBoss/plagiarism-checker/analysis-service/internal/models"
	"github.com/RubachokBoss/plagiarism-checker/analysis-service/internal/worker"
	"github.com/rs/zerolog"
)

type Analyzer interface {
	Analyze(ctx context.Context, submissionID int64) (*models.AnalyzeResult, error)
}

type EventPublisher interface {
	PublishAnalysisCompleted(ctx context.Context, event *models.AnalysisCompletedEvent) error
}

type TaskSubmitter interface {
	Submit(task worker.Task) error
}

type AnalysisService interface {
	Analyze(ctx context.Context, submissionID int64) (*models.AnalyzeResult, error)
}

type analysisService struct {
	analyzer  Analyzer
	publisher EventPublisher
	pool      TaskSubmitter
	logger    zerolog.Logger
}

// NewAnalysisService: publisher и pool могут быть nil, тогда события не отправляются.
func NewAnalysisService(analyzer Analyzer, publisher EventPublisher, pool TaskSubmitter, logger zerolog.Logger) AnalysisService {
	return &analysisService{
		analyzer:  analyzer,
		publisher: publisher,
		pool:      pool,
		logger:    logger.With().Str("component", "analysis_service").Logger(),
	}
}

func (s *analysisService) Analyze(ctx context.Context, submissionID int64) (*models.AnalyzeResult, error) {
	startTime := time.Now()

	result, err := s.analyzer.Analyze(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	s.publishCompleted(result, time.Since(startTime))
	return result, nil
}

// publishCompleted не влияет на ответ: ошибка публикации только логируется.
func (s *analysisService) publishCompleted(result *models.AnalyzeResult, elapsed time.Duration) {
	if s.publisher == nil || s.pool == nil {
		return
	}

	event := &models.AnalysisCompletedEvent{
		SubmissionID:        result.SubmissionID,
		AssignmentName:      result.AssignmentName,
		ClosestSubmissionID: result.ClosestSubmissionID,
		MaxSimilarity:       result.MaxSimilarity,
		IsPlagiarism:        result.IsPlagiarism,
		ComparedWithCount:   result.ComparedWithCount,
		ProcessingTimeMs:    elapsed.Milliseconds(),
		CompletedAt:         time.Now().UTC(),
	}

	err := s.pool.Submit(func() {
		// Контекст запроса к этому моменту уже отменён.
		if err := s.publisher.PublishAnalysisCompleted(context.Background(), event); err != nil {
			s.logger.Error().
				Err(err).
				Int64("submission_id", event.SubmissionID).
				Msg("Failed to publish analysis completed event")
		}
	})
	if err != nil {
		s.logger.Warn().
			Err(err).
			Int64("submission_id", event.SubmissionID).
			Msg("Analysis completed event dropped")
	}
}
