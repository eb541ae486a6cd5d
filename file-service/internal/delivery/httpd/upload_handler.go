package httpd

import (
	"errors"
	"io"
	"net/http"

	"github.com/RubachokBoss/plagiarism-checker/file-service/internal/service"
)

// multipartMemory - сколько формы держим в памяти, остальное уходит во временные файлы.
const multipartMemory = 32 << 20

func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadSize > 0 {
		// Запас под заголовки multipart.
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+1<<20)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to read uploaded file")
		writeError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	response, err := h.uploadService.UploadFileBytes(r.Context(), fileHeader.Filename, fileBytes)
	if err != nil {
		h.handleUploadError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) handleUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyFile):
		writeError(w, http.StatusBadRequest, "File is empty")
	case errors.Is(err, service.ErrFileTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	default:
		h.logger.Error().Err(err).Msg("Upload error")
		writeError(w, http.StatusInternalServerError, "Failed to store file")
	}
}
