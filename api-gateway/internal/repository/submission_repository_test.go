package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/RubachokBoss/plagiarism-checker/api-gateway/internal/models"
	"github.com/rs/zerolog"
)

func newMock(t *testing.T) (SubmissionRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSubmissionRepository(db, zerolog.Nop()), mock
}

func TestCreateSubmission(t *testing.T) {
	repo, mock := newMock(t)

	createdAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO submissions")).
		WithArgs("Ivan", "hw1", "abc_essay.txt", "the cat sat").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(12), createdAt))

	s := &models.Submission{
		StudentName:    "Ivan",
		AssignmentName: "hw1",
		FileName:       "abc_essay.txt",
		Content:        "the cat sat",
	}
	if err := repo.CreateSubmission(context.Background(), s); err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}
	if s.ID != 12 || !s.CreatedAt.Equal(createdAt) {
		t.Errorf("returned columns not scanned: %+v", s)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreateReport(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reports")).
		WithArgs(int64(12), true, 0.9, "ClosestSubmissionId=3").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(40), time.Now()))

	rep := &models.Report{SubmissionID: 12, IsPlagiarism: true, Similarity: 0.9, Details: "ClosestSubmissionId=3"}
	if err := repo.CreateReport(context.Background(), rep); err != nil {
		t.Fatalf("CreateReport: %v", err)
	}
	if rep.ID != 40 {
		t.Errorf("report id = %d, want 40", rep.ID)
	}
}

func TestCreateReportFailure(t *testing.T) {
	repo, mock := newMock(t)

	dbErr := errors.New("fk violation")
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reports")).WillReturnError(dbErr)

	err := repo.CreateReport(context.Background(), &models.Report{SubmissionID: 1})
	if !errors.Is(err, dbErr) {
		t.Errorf("expected wrapped db error, got %v", err)
	}
}

func TestGetSubmissionMissing(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM submissions")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_name", "assignment_name", "file_name", "content", "created_at"}))

	s, err := repo.GetSubmission(context.Background(), 5)
	if err != nil || s != nil {
		t.Errorf("GetSubmission = %+v, %v; want nil, nil", s, err)
	}
}

func TestListReportsBySubmission(t *testing.T) {
	repo, mock := newMock(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM reports")).
		WithArgs(int64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "submission_id", "is_plagiarism", "similarity", "created_at", "details"}).
			AddRow(int64(40), int64(12), false, 0.25, now, "ClosestSubmissionId=3"))

	reports, err := repo.ListReportsBySubmission(context.Background(), 12)
	if err != nil {
		t.Fatalf("ListReportsBySubmission: %v", err)
	}
	if len(reports) != 1 || reports[0].ID != 40 || reports[0].Details != "ClosestSubmissionId=3" {
		t.Errorf("unexpected reports: %+v", reports)
	}
}

func TestListAssignmentReportsOrdered(t *testing.T) {
	repo, mock := newMock(t)

	t1 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)
	mock.ExpectQuery(`WHERE s.assignment_name = \$1\s+ORDER BY r.created_at ASC, r.id ASC`).
		WithArgs("hw1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_name", "assignment_name", "is_plagiarism", "similarity", "created_at"}).
			AddRow(int64(1), "A", "hw1", false, 0.0, t1).
			AddRow(int64(2), "B", "hw1", true, 1.0, t2))

	reports, err := repo.ListAssignmentReports(context.Background(), "hw1")
	if err != nil {
		t.Fatalf("ListAssignmentReports: %v", err)
	}
	if len(reports) != 2 || reports[0].SubmissionID != 1 || !reports[1].IsPlagiarism {
		t.Errorf("unexpected reports: %+v", reports)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestListAssignmentReportsEmpty(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM reports")).
		WithArgs("none").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_name", "assignment_name", "is_plagiarism", "similarity", "created_at"}))

	reports, err := repo.ListAssignmentReports(context.Background(), "none")
	if err != nil {
		t.Fatalf("ListAssignmentReports: %v", err)
	}
	if reports == nil || len(reports) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", reports)
	}
}
