package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/RubachokBoss/plagiarism-checker/api-gateway/internal/models"
	"github.com/rs/zerolog"
)

const FileServiceName = "file-service"

// FileClient - клиент file-service. Каждый вызов выполняется ровно один раз.
type FileClient struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewFileClient: timeout == 0 означает отсутствие дедлайна.
func NewFileClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *FileClient {
	return &FileClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With().Str("component", "file_client").Logger(),
	}
}

// Save загружает файл и возвращает имя, под которым он сохранён.
func (c *FileClient) Save(ctx context.Context, content []byte, fileName string) (*models.StoredFile, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to copy file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{Service: FileServiceName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Service: FileServiceName, Status: resp.StatusCode, Body: readBody(resp)}
	}

	body := readBody(resp)
	var stored models.StoredFile
	if err := json.Unmarshal([]byte(body), &stored); err != nil {
		return nil, &UpstreamError{Service: FileServiceName, Status: resp.StatusCode, Body: body, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if stored.FileName == "" {
		return nil, &UpstreamError{Service: FileServiceName, Status: resp.StatusCode, Body: body, Err: fmt.Errorf("response has no fileName")}
	}

	c.logger.Info().
		Str("file_name", stored.FileName).
		Int("size", len(content)).
		Msg("File stored")

	return &stored, nil
}

// Fetch открывает сохранённый файл. Тело закрывает вызывающий.
func (c *FileClient) Fetch(ctx context.Context, fileName string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/files/"+url.PathEscape(fileName), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{Service: FileServiceName, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, &UpstreamError{Service: FileServiceName, Status: resp.StatusCode, Body: readBody(resp)}
	}

	return resp.Body, nil
}
