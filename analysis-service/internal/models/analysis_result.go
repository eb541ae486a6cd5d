package models

type AnalyzeRequest struct {
	SubmissionID int64 `json:"submissionId"`
}

// AnalyzeResult не сохраняется: отчёт в БД пишет gateway.
type AnalyzeResult struct {
	SubmissionID        int64   `json:"submissionId"`
	ClosestSubmissionID *int64  `json:"closestSubmissionId,omitempty"`
	MaxSimilarity       float64 `json:"maxSimilarity"`
	IsPlagiarism        bool    `json:"isPlagiarism"`
	ComparedWithCount   int     `json:"comparedWithCount"`
	AssignmentName      string  `json:"-"`
}
