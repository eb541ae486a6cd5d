package models

// SubmitRequest собирается из multipart-формы POST /api/submissions.
type SubmitRequest struct {
	StudentName    string `validate:"notblank"`
	AssignmentName string `validate:"notblank"`
	FileName       string
	Content        []byte `validate:"min=1"`
}

type SubmissionResult struct {
	SubmissionID   int64   `json:"submissionId"`
	ReportID       int64   `json:"reportId"`
	StudentName    string  `json:"studentName"`
	AssignmentName string  `json:"assignmentName"`
	FileName       string  `json:"fileName"`
	IsPlagiarism   bool    `json:"isPlagiarism"`
	Similarity     float64 `json:"similarity"`
}

type SubmissionDetails struct {
	Submission
	Reports []Report `json:"reports"`
}

type WordCloud struct {
	SubmissionID int64  `json:"submissionId"`
	URL          string `json:"url"`
}

// AnalysisResult - ответ analysis-service на POST /analyze.
type AnalysisResult struct {
	SubmissionID        int64   `json:"submissionId"`
	ClosestSubmissionID *int64  `json:"closestSubmissionId,omitempty"`
	MaxSimilarity       float64 `json:"maxSimilarity"`
	IsPlagiarism        bool    `json:"isPlagiarism"`
}

// StoredFile - ответ file-service на POST /files.
type StoredFile struct {
	FileName     string `json:"fileName"`
	OriginalName string `json:"originalName"`
}
