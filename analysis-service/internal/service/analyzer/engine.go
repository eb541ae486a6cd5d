package analyzer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/RubachokBoss/plagiarism-checker/analysis-service/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// PlagiarismThreshold - порог включительный: 0.8 уже плагиат.
const PlagiarismThreshold = 0.8

var ErrSubmissionNotFound = errors.New("submission not found")

// SubmissionSource - чтение работ, нужное движку. ListSiblings возвращает другие работы
// того же задания в порядке возрастания id.
type SubmissionSource interface {
	GetByID(ctx context.Context, id int64) (*models.Submission, error)
	ListSiblings(ctx context.Context, assignmentName string, excludeID int64) ([]models.Submission, error)
}

type Engine struct {
	source  SubmissionSource
	workers int
	logger  zerolog.Logger
}

func NewEngine(source SubmissionSource, workers int, logger zerolog.Logger) *Engine {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Engine{
		source:  source,
		workers: workers,
		logger:  logger.With().Str("component", "analysis_engine").Logger(),
	}
}

func (e *Engine) Analyze(ctx context.Context, submissionID int64) (*models.AnalyzeResult, error) {
	startTime := time.Now()

	target, err := e.source.GetByID(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if target == nil {
		return nil, fmt.Errorf("%w: id=%d", ErrSubmissionNotFound, submissionID)
	}

	siblings, err := e.source.ListSiblings(ctx, target.AssignmentName, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sibling submissions: %w", err)
	}

	scores, err := e.score(ctx, NewTokenSet(target.Content), siblings)
	if err != nil {
		return nil, err
	}

	result := &models.AnalyzeResult{
		SubmissionID:      target.ID,
		AssignmentName:    target.AssignmentName,
		ComparedWithCount: len(siblings),
	}

	// Выбор идёт строго в порядке выдачи: первый кандидат задаёт максимум, дальше
	// заменяем только при строго большем значении, так что при равенстве остаётся более ранний.
	for i, score := range scores {
		if result.ClosestSubmissionID == nil || score > result.MaxSimilarity {
			id := siblings[i].ID
			result.ClosestSubmissionID = &id
			result.MaxSimilarity = score
		}
	}
	result.IsPlagiarism = IsPlagiarism(result.MaxSimilarity)

	e.logger.Info().
		Int64("submission_id", target.ID).
		Str("assignment", target.AssignmentName).
		Int("compared_with", len(siblings)).
		Float64("max_similarity", result.MaxSimilarity).
		Bool("plagiarism", result.IsPlagiarism).
		Dur("processing_time", time.Since(startTime)).
		Msg("Submission analyzed")

	return result, nil
}

// score считает сходство с каждым кандидатом параллельно, сохраняя порядок кандидатов.
func (e *Engine) score(ctx context.Context, target TokenSet, candidates []models.Submission) ([]float64, error) {
	scores := make([]float64, len(candidates))
	if len(candidates) == 0 {
		return scores, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scores[i] = Jaccard(target, NewTokenSet(candidates[i].Content))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("similarity scoring interrupted: %w", err)
	}
	return scores, nil
}

func IsPlagiarism(similarity float64) bool {
	return similarity >= PlagiarismThreshold
}
