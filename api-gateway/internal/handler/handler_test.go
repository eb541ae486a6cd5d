package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/RubachokBoss/plagiarism-checker/api-gateway/internal/models"
	"github.com/RubachokBoss/plagiarism-checker/api-gateway/internal/service"
	"github.com/RubachokBoss/plagiarism-checker/api-gateway/internal/service/integration"
	"github.com/rs/zerolog"
)

type stubSubmitter struct {
	out  *service.Outcome
	last *models.SubmitRequest
}

func (s *stubSubmitter) Submit(_ context.Context, req *models.SubmitRequest) *service.Outcome {
	s.last = req
	return s.out
}

type stubSubmissions struct {
	details *models.SubmissionDetails
	wc      *models.WordCloud
	file    string
	err     error
}

func (s *stubSubmissions) GetSubmission(context.Context, int64) (*models.SubmissionDetails, error) {
	return s.details, s.err
}

func (s *stubSubmissions) OpenFile(context.Context, int64) (*models.Submission, io.ReadCloser, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	return &models.Submission{FileName: "id_essay.txt"}, io.NopCloser(strings.NewReader(s.file)), nil
}

func (s *stubSubmissions) GetWordCloud(context.Context, int64) (*models.WordCloud, error) {
	return s.wc, s.err
}

type stubReports struct {
	lastName string
	reports  []models.AssignmentReport
	err      error
}

func (s *stubReports) GetAssignmentReports(_ context.Context, name string) ([]models.AssignmentReport, error) {
	s.lastName = name
	return s.reports, s.err
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func newTestRouter(sub Submitter, subs service.SubmissionService, reps service.ReportService, db Pinger, maxUpload int64) http.Handler {
	h := NewHandler(sub, subs, reps, db, Config{MaxUploadSize: maxUpload}, zerolog.Nop())
	h.SetupRoutes(nil, nil)
	return h.GetRouter()
}

func submitForm(t *testing.T, fields map[string]string, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	if content != nil {
		fw, err := mw.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(content)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func doSubmit(t *testing.T, router http.Handler, fields map[string]string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := submitForm(t, fields, "essay.txt", content)
	req := httptest.NewRequest(http.MethodPost, "/api/submissions", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

var validFields = map[string]string{"studentName": "Ivan", "assignmentName": "hw1"}

func TestSubmitWorkSuccess(t *testing.T) {
	sub := &stubSubmitter{out: &service.Outcome{
		Reached: service.StageReportPersisted,
		Result: &models.SubmissionResult{
			SubmissionID: 1, ReportID: 2, StudentName: "Ivan", AssignmentName: "hw1",
			FileName: "id_essay.txt", IsPlagiarism: true, Similarity: 1,
		},
	}}
	router := newTestRouter(sub, &stubSubmissions{}, &stubReports{}, stubPinger{}, 0)

	rec := doSubmit(t, router, validFields, []byte("the cat sat"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	for _, key := range []string{"submissionId", "reportId", "studentName", "assignmentName", "fileName", "isPlagiarism", "similarity"} {
		if _, ok := resp[key]; !ok {
			t.Errorf("response misses %q: %s", key, rec.Body.String())
		}
	}
	if sub.last.StudentName != "Ivan" || sub.last.FileName != "essay.txt" || string(sub.last.Content) != "the cat sat" {
		t.Errorf("unexpected request passed to pipeline: %+v", sub.last)
	}
}

func TestSubmitWorkMissingFilePassesNilContent(t *testing.T) {
	sub := &stubSubmitter{out: &service.Outcome{
		Failed: service.StageValidated,
		Kind:   service.KindValidation,
		Err:    &service.ValidationError{Fields: map[string]string{"file": "is required"}},
	}}
	router := newTestRouter(sub, &stubSubmissions{}, &stubReports{}, stubPinger{}, 0)

	rec := doSubmit(t, router, validFields, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if sub.last.Content != nil {
		t.Error("missing file must reach the pipeline as nil content")
	}
	var resp ErrorResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Fields["file"] == "" {
		t.Errorf("expected field errors, got %+v", resp)
	}
}

func TestSubmitWorkOutcomeStatuses(t *testing.T) {
	tests := []struct {
		name        string
		out         *service.Outcome
		wantStatus  int
		wantProblem bool
	}{
		{
			name: "upstream",
			out: &service.Outcome{Kind: service.KindUpstream, Failed: service.StageAnalyzed,
				Err: &integration.UpstreamError{Service: integration.AnalysisServiceName, Status: 503, Body: "overloaded"}},
			wantStatus:  http.StatusBadGateway,
			wantProblem: true,
		},
		{
			name:       "not found",
			out:        &service.Outcome{Kind: service.KindNotFound, Err: service.ErrSubmissionNotFound},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "internal",
			out:        &service.Outcome{Kind: service.KindInternal, Err: errors.New("boom")},
			wantStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubSubmitter{out: tt.out}, &stubSubmissions{}, &stubReports{}, stubPinger{}, 0)
			rec := doSubmit(t, router, validFields, []byte("x"))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !tt.wantProblem {
				return
			}
			if ct := rec.Header().Get("Content-Type"); ct != problemContentType {
				t.Errorf("Content-Type = %q", ct)
			}
			var p Problem
			json.Unmarshal(rec.Body.Bytes(), &p)
			if p.UpstreamStatus != 503 || p.UpstreamBody != "overloaded" || p.Service != integration.AnalysisServiceName {
				t.Errorf("unexpected problem: %+v", p)
			}
		})
	}
}

func TestSubmitWorkTooLarge(t *testing.T) {
	sub := &stubSubmitter{}
	router := newTestRouter(sub, &stubSubmissions{}, &stubReports{}, stubPinger{}, 4)

	rec := doSubmit(t, router, validFields, []byte("0123456789"))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
	if sub.last != nil {
		t.Error("pipeline must not run")
	}
}

func TestSubmitWorkNotMultipart(t *testing.T) {
	router := newTestRouter(&stubSubmitter{}, &stubSubmissions{}, &stubReports{}, stubPinger{}, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/submissions", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetAssignmentReports(t *testing.T) {
	reports := &stubReports{reports: []models.AssignmentReport{
		{SubmissionID: 1, StudentName: "A", AssignmentName: "hw 1", Similarity: 0.5, CreatedAt: time.Now()},
	}}
	router := newTestRouter(&stubSubmitter{}, &stubSubmissions{}, reports, stubPinger{}, 0)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/assignments/hw%201/reports", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if reports.lastName != "hw 1" {
		t.Errorf("assignment name = %q", reports.lastName)
	}
	var got []models.AssignmentReport
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil || len(got) != 1 {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestGetAssignmentReportsEmptyList(t *testing.T) {
	router := newTestRouter(&stubSubmitter{}, &stubSubmissions{}, &stubReports{reports: []models.AssignmentReport{}}, stubPinger{}, 0)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/assignments/none/reports", nil))
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("body = %q, want []", rec.Body.String())
	}
}

func TestGetWordCloud(t *testing.T) {
	subs := &stubSubmissions{wc: &models.WordCloud{SubmissionID: 3, URL: "https://quickchart.io/wordcloud?text=a%20b"}}
	router := newTestRouter(&stubSubmitter{}, subs, &stubReports{}, stubPinger{}, 0)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/submissions/3/wordcloud", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"submissionId":3`) {
		t.Errorf("status = %d body = %s", rec.Code, rec.Body.String())
	}
}

func TestSubmissionLookupErrors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		err        error
		wantStatus int
	}{
		{"non-numeric id", "/api/submissions/abc/wordcloud", nil, http.StatusBadRequest},
		{"unknown id", "/api/submissions/9/wordcloud", service.ErrSubmissionNotFound, http.StatusNotFound},
		{"unknown id details", "/api/submissions/9", service.ErrSubmissionNotFound, http.StatusNotFound},
		{"file upstream", "/api/submissions/9/file", &integration.UpstreamError{Service: integration.FileServiceName, Status: 404}, http.StatusBadGateway},
		{"db failure", "/api/submissions/9", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubSubmitter{}, &stubSubmissions{err: tt.err}, &stubReports{}, stubPinger{}, 0)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestGetSubmissionFile(t *testing.T) {
	router := newTestRouter(&stubSubmitter{}, &stubSubmissions{file: "the cat sat"}, &stubReports{}, stubPinger{}, 0)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/submissions/1/file", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "the cat sat" {
		t.Fatalf("status = %d body = %q", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "id_essay.txt") {
		t.Errorf("Content-Disposition = %q", cd)
	}
}

func TestReadyCheck(t *testing.T) {
	router := newTestRouter(&stubSubmitter{}, &stubSubmissions{}, &stubReports{}, stubPinger{err: errors.New("refused")}, 0)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready status = %d, want 503", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
}
