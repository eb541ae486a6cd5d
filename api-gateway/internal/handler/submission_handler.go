package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/RubachokBoss/plagiarism-checker/api-gateway/internal/models"
	"github.com/RubachokBoss/plagiarism-checker/api-gateway/internal/service"
	"github.com/RubachokBoss/plagiarism-checker/api-gateway/internal/service/integration"
	"github.com/go-chi/chi/v5"
)

const (
	maxMultipartMemory = 32 << 20
	multipartOverhead  = 1 << 20
)

func (h *Handler) SubmitWork(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+multipartOverhead)
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "File is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	req := &models.SubmitRequest{
		StudentName:    r.FormValue("studentName"),
		AssignmentName: r.FormValue("assignmentName"),
	}

	file, header, err := r.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		// отсутствие файла отловит валидация
	case err != nil:
		writeError(w, http.StatusBadRequest, "Invalid file field")
		return
	default:
		defer file.Close()
		if h.maxUploadSize > 0 && header.Size > h.maxUploadSize {
			writeError(w, http.StatusRequestEntityTooLarge, "File is too large")
			return
		}
		content, err := io.ReadAll(file)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read uploaded file")
			writeError(w, http.StatusBadRequest, "Failed to read file")
			return
		}
		req.FileName = header.Filename
		req.Content = content
	}

	out := h.pipeline.Submit(r.Context(), req)
	if !out.OK() {
		h.handleOutcomeError(w, out)
		return
	}

	writeJSON(w, http.StatusOK, out.Result)
}

func (h *Handler) handleOutcomeError(w http.ResponseWriter, out *service.Outcome) {
	switch out.Kind {
	case service.KindValidation:
		var verr *service.ValidationError
		errors.As(out.Err, &verr)
		resp := ErrorResponse{Error: http.StatusText(http.StatusBadRequest), Message: out.Err.Error()}
		if verr != nil {
			resp.Fields = verr.Fields
		}
		writeJSON(w, http.StatusBadRequest, resp)
	case service.KindNotFound:
		writeError(w, http.StatusNotFound, out.Err.Error())
	case service.KindUpstream:
		h.handleError(w, out.Err)
	default:
		h.logger.Error().Err(out.Err).Str("stage", out.Failed.String()).Msg("Submission failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *Handler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	id, ok := submissionID(w, r)
	if !ok {
		return
	}

	details, err := h.submissions.GetSubmission(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, details)
}

func (h *Handler) GetSubmissionFile(w http.ResponseWriter, r *http.Request) {
	id, ok := submissionID(w, r)
	if !ok {
		return
	}

	submission, body, err := h.submissions.OpenFile(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	if cd := mime.FormatMediaType("attachment", map[string]string{"filename": submission.FileName}); cd != "" {
		w.Header().Set("Content-Disposition", cd)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn().Err(err).Int64("submission_id", id).Msg("Failed to stream file")
	}
}

func (h *Handler) GetWordCloud(w http.ResponseWriter, r *http.Request) {
	id, ok := submissionID(w, r)
	if !ok {
		return
	}

	wc, err := h.submissions.GetWordCloud(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, wc)
}

func (h *Handler) GetAssignmentReports(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "assignmentName")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid assignment name")
		return
	}

	reports, err := h.reports.GetAssignmentReports(r.Context(), name)
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reports)
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	var upErr *integration.UpstreamError
	switch {
	case errors.Is(err, service.ErrSubmissionNotFound):
		writeError(w, http.StatusNotFound, "Submission not found")
	case errors.As(err, &upErr):
		h.logger.Warn().Err(err).Str("service", upErr.Service).Int("upstream_status", upErr.Status).Msg("Upstream failure")
		writeProblem(w, NewUpstreamProblem(upErr))
	default:
		h.logger.Error().Err(err).Msg("Request failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func submissionID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid submission id")
		return 0, false
	}
	return id, true
}

// pathParam возвращает декодированный сегмент пути: chi отдаёт его в виде из RawPath,
// если тот задан.
func pathParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}
