package httpd

import (
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/RubachokBoss/plagiarism-checker/file-service/internal/service"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	fileName, err := fileNameParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid file name")
		return
	}

	response, err := h.downloadService.DownloadFile(r.Context(), fileName)
	if err != nil {
		h.handleDownloadError(w, err, fileName)
		return
	}

	etag := ""
	if response.Hash != "" {
		etag = strconv.Quote(response.Hash)
		if r.Header.Get("If-None-Match") == etag {
			w.Header().Set("ETag", etag)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": response.FileName}))
	w.Header().Set("Content-Length", strconv.FormatInt(response.Size, 10))
	w.Header().Set("Cache-Control", "private, max-age=86400")

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(response.Content); err != nil {
		h.logger.Warn().Err(err).Str("file_name", fileName).Msg("Failed to write file to client")
	}
}

func (h *Handler) handleDownloadError(w http.ResponseWriter, err error, fileName string) {
	switch {
	case errors.Is(err, service.ErrInvalidFileName):
		writeError(w, http.StatusBadRequest, "Invalid file name")
	case errors.Is(err, service.ErrFileNotFound):
		writeError(w, http.StatusNotFound, "File not found")
	default:
		h.logger.Error().Err(err).Str("file_name", fileName).Msg("Download error")
		writeError(w, http.StatusInternalServerError, "Failed to download file")
	}
}

// chi матчит по RawPath, если он задан, и отдаёт сегмент в экранированном виде.
func fileNameParam(r *http.Request) (string, error) {
	v := chi.URLParam(r, "fileName")
	if r.URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}
