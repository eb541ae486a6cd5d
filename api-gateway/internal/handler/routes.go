package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes регистрирует публичный API. submitLimit может быть nil.
func (h *Handler) SetupRoutes(fileProxy http.Handler, submitLimit func(http.Handler) http.Handler) {
	h.router.Route("/api", func(r chi.Router) {
		r.Route("/submissions", func(r chi.Router) {
			if submitLimit != nil {
				r.With(submitLimit).Post("/", h.SubmitWork)
			} else {
				r.Post("/", h.SubmitWork)
			}
			r.Get("/{id}", h.GetSubmission)
			r.Get("/{id}/file", h.GetSubmissionFile)
			r.Get("/{id}/wordcloud", h.GetWordCloud)
		})

		r.Get("/assignments/{assignmentName}/reports", h.GetAssignmentReports)
	})

	if fileProxy != nil {
		h.router.Handle("/files", fileProxy)
		h.router.Handle("/files/*", fileProxy)
	}
}
