package httpd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/RubachokBoss/plagiarism-checker/file-service/internal/models"
	"github.com/RubachokBoss/plagiarism-checker/file-service/internal/repository"
	"github.com/RubachokBoss/plagiarism-checker/file-service/internal/service"
	"github.com/RubachokBoss/plagiarism-checker/pkg/hash"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

func newTestServer(t *testing.T, maxUploadSize int64) (http.Handler, repository.StorageRepository) {
	t.Helper()

	storage, err := repository.NewLocalRepository(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewLocalRepository: %v", err)
	}
	hasher, err := hash.NewFileHasher(hash.SHA256)
	if err != nil {
		t.Fatalf("NewFileHasher: %v", err)
	}

	h := NewHandler(
		service.NewUploadService(storage, hasher, zerolog.Nop(), service.UploadConfig{MaxUploadSize: maxUploadSize}),
		service.NewDownloadService(storage, hasher, zerolog.Nop()),
		storage,
		maxUploadSize,
		zerolog.Nop(),
	)
	router := chi.NewRouter()
	h.RegisterRoutes(router)
	return router, storage
}

func multipartBody(t *testing.T, field, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, fileName)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(content)
	} else {
		mw.WriteField("other", "value")
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func upload(t *testing.T, router http.Handler, field, fileName string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, field, fileName, content)
	req := httptest.NewRequest(http.MethodPost, "/files", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUploadAndDownload(t *testing.T) {
	router, _ := newTestServer(t, 0)

	rec := upload(t, router, "file", "essay.txt", []byte("the cat sat"))
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp models.UploadFileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.OriginalName != "essay.txt" || !strings.HasSuffix(resp.FileName, "_essay.txt") {
		t.Fatalf("unexpected upload response: %+v", resp)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/"+resp.FileName, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("download status = %d", rec.Code)
	}
	if rec.Body.String() != "the cat sat" {
		t.Errorf("body = %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/octet-stream" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, resp.FileName) {
		t.Errorf("Content-Disposition = %q", cd)
	}

	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}
	req := httptest.NewRequest(http.MethodGet, "/files/"+resp.FileName, nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotModified {
		t.Errorf("conditional GET status = %d, want 304", rec.Code)
	}
}

func TestDownloadEscapedFileName(t *testing.T) {
	router, _ := newTestServer(t, 0)

	for _, original := range []string{"a,b;c.txt", "essay, final.txt", "a b.txt"} {
		t.Run(original, func(t *testing.T) {
			rec := upload(t, router, "file", original, []byte("escaped name"))
			if rec.Code != http.StatusOK {
				t.Fatalf("upload status = %d: %s", rec.Code, rec.Body.String())
			}
			var resp models.UploadFileResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}

			rec = httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/"+url.PathEscape(resp.FileName), nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("download %q status = %d: %s", resp.FileName, rec.Code, rec.Body.String())
			}
			if rec.Body.String() != "escaped name" {
				t.Errorf("body = %q", rec.Body.String())
			}
		})
	}
}

func TestDownloadEscapedSeparator(t *testing.T) {
	router, _ := newTestServer(t, 0)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/"+url.PathEscape("../etc;passwd"), nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUploadValidation(t *testing.T) {
	router, _ := newTestServer(t, 8)

	tests := []struct {
		name       string
		field      string
		content    []byte
		wantStatus int
	}{
		{"missing file", "", nil, http.StatusBadRequest},
		{"empty file", "file", []byte{}, http.StatusBadRequest},
		{"too large", "file", bytes.Repeat([]byte("a"), 64), http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := upload(t, router, tt.field, "f.txt", tt.content)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestUploadNotMultipart(t *testing.T) {
	router, _ := newTestServer(t, 0)

	req := httptest.NewRequest(http.MethodPost, "/files", strings.NewReader(`{"file":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDownloadNotFound(t *testing.T) {
	router, _ := newTestServer(t, 0)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/missing.txt", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

type brokenStorage struct{}

func (brokenStorage) Save(context.Context, string, io.Reader, int64) error { return errors.New("io") }
func (brokenStorage) Open(context.Context, string) (io.ReadCloser, int64, error) {
	return nil, 0, errors.New("io")
}
func (brokenStorage) Ping(context.Context) error { return errors.New("unavailable") }

func TestStorageFailures(t *testing.T) {
	hasher, _ := hash.NewFileHasher(hash.SHA256)
	storage := brokenStorage{}
	h := NewHandler(
		service.NewUploadService(storage, hasher, zerolog.Nop(), service.UploadConfig{}),
		service.NewDownloadService(storage, hasher, zerolog.Nop()),
		storage,
		0,
		zerolog.Nop(),
	)
	router := chi.NewRouter()
	h.RegisterRoutes(router)

	if rec := upload(t, router, "file", "f.txt", []byte("x")); rec.Code != http.StatusInternalServerError {
		t.Errorf("upload status = %d, want 500", rec.Code)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/f.txt", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("download status = %d, want 500", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("health status = %d, want 503", rec.Code)
	}
}
