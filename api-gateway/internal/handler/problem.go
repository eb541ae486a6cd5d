package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/RubachokBoss/plagiarism-checker/api-gateway/internal/service/integration"
)

const problemContentType = "application/problem+json"

// Problem - документ RFC 7807 для ошибок соседних сервисов.
type Problem struct {
	Type           string `json:"type"`
	Title          string `json:"title"`
	Status         int    `json:"status"`
	Detail         string `json:"detail"`
	Service        string `json:"service"`
	UpstreamStatus int    `json:"upstreamStatus,omitempty"`
	UpstreamBody   string `json:"upstreamBody,omitempty"`
}

func NewUpstreamProblem(err *integration.UpstreamError) Problem {
	detail := fmt.Sprintf("%s returned status %d", err.Service, err.Status)
	switch {
	case err.Status == 0:
		detail = fmt.Sprintf("%s is unavailable", err.Service)
	case err.Status >= 200 && err.Status <= 299:
		detail = fmt.Sprintf("%s returned an unparsable response", err.Service)
	}

	return Problem{
		Type:           "about:blank",
		Title:          "Upstream service failure",
		Status:         http.StatusBadGateway,
		Detail:         detail,
		Service:        err.Service,
		UpstreamStatus: err.Status,
		UpstreamBody:   err.Body,
	}
}

func writeProblem(w http.ResponseWriter, p Problem) {
	w.Header().Set("Content-Type", problemContentType)
	w.WriteHeader(p.Status)
	json.NewEncoder(w).Encode(p)
}
