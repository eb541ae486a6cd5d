package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/RubachokBoss/plagiarism-checker/analysis-service/internal/models"
	"github.com/rs/zerolog"
)

// SubmissionRepository - только чтение; работы создаёт gateway.
type SubmissionRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Submission, error)
	ListSiblings(ctx context.Context, assignmentName string, excludeID int64) ([]models.Submission, error)
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

func (r *submissionRepository) GetByID(ctx context.Context, id int64) (*models.Submission, error) {
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

// ListSiblings читает без транзакции (read committed): работа, вставленная параллельно,
// может не попасть в выборку.
func (r *submissionRepository) ListSiblings(ctx context.Context, assignmentName string, excludeID int64) ([]models.Submission, error) {
	query := `
		SELECT id, student_name, assignment_name, file_name, content, created_at
		FROM submissions
		WHERE assignment_name = $1 AND id <> $2
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, assignmentName, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []models.Submission
	for rows.Next() {
		var s models.Submission
		if err := rows.Scan(
			&s.ID,
			&s.StudentName,
			&s.AssignmentName,
			&s.FileName,
			&s.Content,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}
		submissions = append(submissions, s)
	}

	return submissions, rows.Err()
}
