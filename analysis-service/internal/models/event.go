package models

import (
	"time"
)

const AnalysisCompletedRoutingKey = "analysis.completed"

type AnalysisCompletedEvent struct {
	SubmissionID        int64     `json:"submission_id"`
	AssignmentName      string    `json:"assignment_name"`
	ClosestSubmissionID *int64    `json:"closest_submission_id,omitempty"`
	MaxSimilarity       float64   `json:"max_similarity"`
	IsPlagiarism        bool      `json:"is_plagiarism"`
	ComparedWithCount   int       `json:"compared_with_count"`
	ProcessingTimeMs    int64     `json:"processing_time_ms"`
	CompletedAt         time.Time `json:"completed_at"`
}
