package httpd

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RubachokBoss/plagiarism-checker/analysis-service/internal/models"
	"github.com/RubachokBoss/plagiarism-checker/analysis-service/internal/service/analyzer"
)

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.SubmissionID <= 0 {
		writeError(w, http.StatusBadRequest, "submissionId must be a positive integer")
		return
	}

	result, err := h.analysisService.Analyze(r.Context(), req.SubmissionID)
	if err != nil {
		h.handleAnalysisError(w, err, req.SubmissionID)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleAnalysisError(w http.ResponseWriter, err error, submissionID int64) {
	switch {
	case errors.Is(err, analyzer.ErrSubmissionNotFound):
		writeError(w, http.StatusNotFound, "Submission not found")
	default:
		h.logger.Error().Err(err).Int64("submission_id", submissionID).Msg("Analysis failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
