package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/RubachokBoss/plagiarism-checker/api-gateway/internal/models"
	"github.com/rs/zerolog"
)

const DefaultWordCloudBaseURL = "https://quickchart.io/wordcloud"

type SubmissionReader interface {
	GetSubmission(ctx context.Context, id int64) (*models.Submission, error)
	ListReportsBySubmission(ctx context.Context, submissionID int64) ([]models.Report, error)
}

type SubmissionService interface {
	GetSubmission(ctx context.Context, id int64) (*models.SubmissionDetails, error)
	OpenFile(ctx context.Context, id int64) (*models.Submission, io.ReadCloser, error)
	GetWordCloud(ctx context.Context, id int64) (*models.WordCloud, error)
}

type submissionService struct {
	repo             SubmissionReader
	files            FileStore
	wordCloudBaseURL string
	logger           zerolog.Logger
}

func NewSubmissionService(repo SubmissionReader, files FileStore, wordCloudBaseURL string, logger zerolog.Logger) SubmissionService {
	if wordCloudBaseURL == "" {
		wordCloudBaseURL = DefaultWordCloudBaseURL
	}
	return &submissionService{
		repo:             repo,
		files:            files,
		wordCloudBaseURL: wordCloudBaseURL,
		logger:           logger.With().Str("component", "submission_service").Logger(),
	}
}

func (s *submissionService) GetSubmission(ctx context.Context, id int64) (*models.SubmissionDetails, error) {
	submission, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	reports, err := s.repo.ListReportsBySubmission(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	return &models.SubmissionDetails{Submission: *submission, Reports: reports}, nil
}

// OpenFile отдаёт поток сохранённого файла работы. Поток закрывает вызывающий.
func (s *submissionService) OpenFile(ctx context.Context, id int64) (*models.Submission, io.ReadCloser, error) {
	submission, err := s.find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	body, err := s.files.Fetch(ctx, submission.FileName)
	if err != nil {
		s.logger.Error().Err(err).Int64("submission_id", id).Str("file_name", submission.FileName).Msg("Failed to fetch file")
		return nil, nil, err
	}
	return submission, body, nil
}

func (s *submissionService) GetWordCloud(ctx context.Context, id int64) (*models.WordCloud, error) {
	submission, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.WordCloud{
		SubmissionID: submission.ID,
		URL:          WordCloudURL(s.wordCloudBaseURL, submission.Content),
	}, nil
}

func (s *submissionService) find(ctx context.Context, id int64) (*models.Submission, error) {
	submission, err := s.repo.GetSubmission(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if submission == nil {
		return nil, ErrSubmissionNotFound
	}
	return submission, nil
}

// WordCloudURL кодирует текст как RFC 3986 data string: пробел -> %20, не '+'.
func WordCloudURL(baseURL, text string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return baseURL + "?text=" + escaped
}
