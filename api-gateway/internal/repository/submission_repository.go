package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/RubachokBoss/plagiarism-checker/api-gateway/internal/models"
	"github.com/rs/zerolog"
)

// SubmissionRepository хранит работы и отчёты. Каждый вызов коммитится отдельно,
// транзакций между шагами конвейера нет.
type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, s *models.Submission) error
	CreateReport(ctx context.Context, r *models.Report) error
	GetSubmission(ctx context.Context, id int64) (*models.Submission, error)
	ListReportsBySubmission(ctx context.Context, submissionID int64) ([]models.Report, error)
	ListAssignmentReports(ctx context.Context, assignmentName string) ([]models.AssignmentReport, error)
	Ping(ctx context.Context) error
}

type submissionRepository struct {
	*PostgresRepository
}

func NewSubmissionRepository(db *sql.DB, logger zerolog.Logger) SubmissionRepository {
	return &submissionRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *submissionRepository) CreateSubmission(ctx context.Context, s *models.Submission) error {
	query := `
		INSERT INTO submissions (student_name, assignment_name, file_name, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		s.StudentName,
		s.AssignmentName,
		s.FileName,
		s.Content,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}

	r.logger.Debug().
		Int64("submission_id", s.ID).
		Str("assignment", s.AssignmentName).
		Msg("Submission created")

	return nil
}

func (r *submissionRepository) CreateReport(ctx context.Context, rep *models.Report) error {
	query := `
		INSERT INTO reports (submission_id, is_plagiarism, similarity, details)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		rep.SubmissionID,
		rep.IsPlagiarism,
		rep.Similarity,
		rep.Details,
	).Scan(&rep.ID, &rep.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	return nil
}

func (r *submissionRepository) GetSubmission(ctx context.Context, id int64) (*models.Submission, error) {
	query := `
		SELECT id, student_name, assignment_name, file_name, content, created_at
		FROM submissions
		WHERE id = $1
	`

	s := &models.Submission{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID,
		&s.StudentName,
		&s.AssignmentName,
		&s.FileName,
		&s.Content,
		&s.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (r *submissionRepository) ListReportsBySubmission(ctx context.Context, submissionID int64) ([]models.Report, error) {
	query := `
		SELECT id, submission_id, is_plagiarism, similarity, created_at, details
		FROM reports
		WHERE submission_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := make([]models.Report, 0)
	for rows.Next() {
		var rep models.Report
		if err := rows.Scan(
			&rep.ID,
			&rep.SubmissionID,
			&rep.IsPlagiarism,
			&rep.Similarity,
			&rep.CreatedAt,
			&rep.Details,
		); err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}

	return reports, rows.Err()
}

func (r *submissionRepository) ListAssignmentReports(ctx context.Context, assignmentName string) ([]models.AssignmentReport, error) {
	query := `
		SELECT s.id, s.student_name, s.assignment_name, r.is_plagiarism, r.similarity, r.created_at
		FROM reports r
		JOIN submissions s ON s.id = r.submission_id
		WHERE s.assignment_name = $1
		ORDER BY r.created_at ASC, r.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, assignmentName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := make([]models.AssignmentReport, 0)
	for rows.Next() {
		var rep models.AssignmentReport
		if err := rows.Scan(
			&rep.SubmissionID,
			&rep.StudentName,
			&rep.AssignmentName,
			&rep.IsPlagiarism,
			&rep.Similarity,
			&rep.CreatedAt,
		); err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}

	return reports, rows.Err()
}
