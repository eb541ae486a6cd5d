package models

import "time"

type Submission struct {
	ID             int64     `json:"id"`
	StudentName    string    `json:"studentName"`
	AssignmentName string    `json:"assignmentName"`
	FileName       string    `json:"fileName"`
	Content        string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Report struct {
	ID           int64     `json:"id"`
	SubmissionID int64     `json:"submissionId"`
	IsPlagiarism bool      `json:"isPlagiarism"`
	Similarity   float64   `json:"similarity"`
	CreatedAt    time.Time `json:"createdAt"`
	Details      string    `json:"details"`
}

// AssignmentReport - строка отчёта по заданию (submissions JOIN reports).
type AssignmentReport struct {
	SubmissionID   int64     `json:"submissionId"`
	StudentName    string    `json:"studentName"`
	AssignmentName string    `json:"assignmentName"`
	IsPlagiarism   bool      `json:"isPlagiarism"`
	Similarity     float64   `json:"similarity"`
	CreatedAt      time.Time `json:"createdAt"`
}
