package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"goodtime-diagnostic/internal/model"
)

// AnalysisPath is the analysis endpoint relative to the service base URL
const AnalysisPath = "/api/diagnostic/analyze"

// AnalysisClient calls the remote analysis service over HTTP
type AnalysisClient struct {
	baseURL string
	client  *http.Client
}

// NewAnalysisClient creates a client for the service at baseURL
func NewAnalysisClient(baseURL string, timeout time.Duration) *AnalysisClient {
	return &AnalysisClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Analyze posts the finished diagnostic and decodes the report
func (c *AnalysisClient) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.Analysis, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+AnalysisPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("analysis request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("analysis service returned %d: %s", resp.StatusCode, msg)
	}

	var analysis model.Analysis
	if err := json.NewDecoder(resp.Body).Decode(&analysis); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return &analysis, nil
}
