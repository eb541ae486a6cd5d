package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/RubachokBoss/plagiarism-checker/api-gateway/internal/models"
	"github.com/rs/zerolog"
)

const AnalysisServiceName = "analysis-service"

type AnalysisClient struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

func NewAnalysisClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *AnalysisClient {
	return &AnalysisClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With().Str("component", "analysis_client").Logger(),
	}
}

func (c *AnalysisClient) Analyze(ctx context.Context, submissionID int64) (*models.AnalysisResult, error) {
	payload, err := json.Marshal(map[string]int64{"submissionId": submissionID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{Service: AnalysisServiceName, Err: err}
	}
	defer resp.Body.Close()

	body := readBody(resp)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Service: AnalysisServiceName, Status: resp.StatusCode, Body: body}
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		return nil, &UpstreamError{Service: AnalysisServiceName, Status: resp.StatusCode, Body: body, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	c.logger.Debug().
		Int64("submission_id", submissionID).
		Float64("max_similarity", result.MaxSimilarity).
		Bool("is_plagiarism", result.IsPlagiarism).
		Msg("Analysis completed")

	return &result, nil
}
