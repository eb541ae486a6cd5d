package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/RubachokBoss/plagiarism-checker/api-gateway/internal/models"
	"github.com/RubachokBoss/plagiarism-checker/api-gateway/internal/service/integration"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/rs/zerolog"
)

const repositoryServiceName = "submission-repository"

// defaultFileName подставляется, если клиент не передал имя файла:
// multipart-часть без filename file-service не примет как файл.
const defaultFileName = "file"

const utf8BOM = "\xEF\xBB\xBF"

// Stage - шаг конвейера приёма работы. Шаги идут строго по порядку.
type Stage int

const (
	StageNone Stage = iota
	StageValidated
	StageStored
	StageSubmissionPersisted
	StageAnalyzed
	StageReportPersisted
)

func (s Stage) String() string {
	switch s {
	case StageNone:
		return "none"
	case StageValidated:
		return "validated"
	case StageStored:
		return "stored"
	case StageSubmissionPersisted:
		return "submission_persisted"
	case StageAnalyzed:
		return "analyzed"
	case StageReportPersisted:
		return "report_persisted"
	default:
		return "stage(" + strconv.Itoa(int(s)) + ")"
	}
}

type FailureKind int

const (
	KindNone FailureKind = iota
	KindValidation
	KindNotFound
	KindUpstream
	KindInternal
)

// Outcome - итог прогона конвейера. Reached - последний успешно пройденный шаг,
// Failed - шаг, на котором произошла ошибка (StageNone при успехе).
type Outcome struct {
	Reached Stage
	Failed  Stage
	Kind    FailureKind
	Err     error
	Result  *models.SubmissionResult
}

func (o *Outcome) OK() bool {
	return o.Kind == KindNone
}

type FileStore interface {
	Save(ctx context.Context, content []byte, fileName string) (*models.StoredFile, error)
	Fetch(ctx context.Context, fileName string) (io.ReadCloser, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, submissionID int64) (*models.AnalysisResult, error)
}

type SubmissionStore interface {
	CreateSubmission(ctx context.Context, s *models.Submission) error
	CreateReport(ctx context.Context, r *models.Report) error
}

// SubmissionPipeline: сохранить файл -> записать работу -> проанализировать -> записать отчёт.
// Откатов нет: при ошибке на позднем шаге результаты ранних шагов остаются.
type SubmissionPipeline struct {
	files    FileStore
	analyzer Analyzer
	store    SubmissionStore
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewSubmissionPipeline(files FileStore, analyzer Analyzer, store SubmissionStore, logger zerolog.Logger) (*SubmissionPipeline, error) {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, fmt.Errorf("failed to register notblank validator: %w", err)
	}

	return &SubmissionPipeline{
		files:    files,
		analyzer: analyzer,
		store:    store,
		validate: v,
		logger:   logger.With().Str("component", "submission_pipeline").Logger(),
	}, nil
}

func (p *SubmissionPipeline) Submit(ctx context.Context, req *models.SubmitRequest) *Outcome {
	out := &Outcome{}

	if err := p.validate.Struct(req); err != nil {
		return out.fail(StageValidated, newValidationError(err))
	}
	out.Reached = StageValidated

	fileName := req.FileName
	if strings.TrimSpace(fileName) == "" {
		fileName = defaultFileName
	}

	stored, err := p.files.Save(ctx, req.Content, fileName)
	if err != nil {
		p.logger.Error().Err(err).Str("stage", StageStored.String()).Msg("Failed to store file")
		return out.fail(StageStored, err)
	}
	out.Reached = StageStored

	submission := &models.Submission{
		StudentName:    req.StudentName,
		AssignmentName: req.AssignmentName,
		FileName:       stored.FileName,
		Content:        DecodeContent(req.Content),
	}
	if err := p.store.CreateSubmission(ctx, submission); err != nil {
		p.logger.Error().Err(err).
			Str("stage", StageSubmissionPersisted.String()).
			Str("orphaned_file", stored.FileName).
			Msg("Failed to persist submission")
		return out.fail(StageSubmissionPersisted, repositoryError(err, "failed to persist submission"))
	}
	out.Reached = StageSubmissionPersisted

	analysis, err := p.analyzer.Analyze(ctx, submission.ID)
	if err != nil {
		p.logger.Error().Err(err).
			Str("stage", StageAnalyzed.String()).
			Int64("submission_id", submission.ID).
			Msg("Analysis failed, submission left without report")
		return out.fail(StageAnalyzed, err)
	}
	out.Reached = StageAnalyzed

	report := &models.Report{
		SubmissionID: submission.ID,
		IsPlagiarism: analysis.IsPlagiarism,
		Similarity:   analysis.MaxSimilarity,
		Details:      reportDetails(analysis),
	}
	if err := p.store.CreateReport(ctx, report); err != nil {
		p.logger.Error().Err(err).
			Str("stage", StageReportPersisted.String()).
			Int64("submission_id", submission.ID).
			Msg("Failed to persist report")
		return out.fail(StageReportPersisted, repositoryError(err, "failed to persist report"))
	}
	out.Reached = StageReportPersisted

	p.logger.Info().
		Int64("submission_id", submission.ID).
		Int64("report_id", report.ID).
		Str("assignment", submission.AssignmentName).
		Bool("is_plagiarism", report.IsPlagiarism).
		Float64("similarity", report.Similarity).
		Msg("Submission processed")

	out.Result = &models.SubmissionResult{
		SubmissionID:   submission.ID,
		ReportID:       report.ID,
		StudentName:    submission.StudentName,
		AssignmentName: submission.AssignmentName,
		FileName:       submission.FileName,
		IsPlagiarism:   report.IsPlagiarism,
		Similarity:     report.Similarity,
	}
	return out
}

func (o *Outcome) fail(stage Stage, err error) *Outcome {
	o.Failed = stage
	o.Err = err
	o.Kind = classify(err)
	return o
}

func classify(err error) FailureKind {
	var validationErr *ValidationError
	var upstreamErr *integration.UpstreamError
	switch {
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.Is(err, ErrSubmissionNotFound):
		return KindNotFound
	case errors.As(err, &upstreamErr):
		return KindUpstream
	default:
		return KindInternal
	}
}

// repositoryError: сбой записи в БД отдаётся как ошибка внешнего хранилища,
// тело - общее сообщение без деталей SQL.
func repositoryError(err error, message string) error {
	return &integration.UpstreamError{
		Service: repositoryServiceName,
		Body:    message,
		Err:     err,
	}
}

// DecodeContent превращает байты файла в текст без BOM. Каждая максимальная
// часть некорректной последовательности UTF-8 заменяется одним U+FFFD.
func DecodeContent(content []byte) string {
	b := []byte(strings.TrimPrefix(string(content), utf8BOM))

	var sb strings.Builder
	sb.Grow(len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size == 1 {
			sb.WriteRune(utf8.RuneError)
			b = b[invalidPrefixLen(b):]
			continue
		}
		sb.Write(b[:size])
		b = b[size:]
	}
	return sb.String()
}

// invalidPrefixLen возвращает длину начала некорректной последовательности,
// которое ещё могло стать валидным символом (таблица 3-7 Unicode).
func invalidPrefixLen(b []byte) int {
	lo, hi := byte(0x80), byte(0xBF)
	need := 0
	switch c := b[0]; {
	case c >= 0xC2 && c <= 0xDF:
		need = 1
	case c == 0xE0:
		need, lo = 2, 0xA0
	case c == 0xED:
		need, hi = 2, 0x9F
	case c >= 0xE1 && c <= 0xEF:
		need = 2
	case c == 0xF0:
		need, lo = 3, 0x90
	case c == 0xF4:
		need, hi = 3, 0x8F
	case c >= 0xF1 && c <= 0xF3:
		need = 3
	default:
		return 1
	}

	n := 1
	for ; n <= need && n < len(b); n++ {
		if b[n] < lo || b[n] > hi {
			break
		}
		lo, hi = 0x80, 0xBF
	}
	return n
}

func reportDetails(r *models.AnalysisResult) string {
	closest := ""
	if r.ClosestSubmissionID != nil {
		closest = strconv.FormatInt(*r.ClosestSubmissionID, 10)
	}
	return fmt.Sprintf("ClosestSubmissionId=%s", closest)
}
