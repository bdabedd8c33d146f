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

// WebhookSink posts finished submissions to the CRM webhook
type WebhookSink struct {
	url    string
	client *http.Client
}

// NewWebhookSink creates a sink posting to url
func NewWebhookSink(url string, timeout time.Duration) *WebhookSink {
	return &WebhookSink{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Notify posts the submission. The response body is ignored.
func (s *WebhookSink) Notify(ctx context.Context, sub *model.Submission) error {
	body, err := json.Marshal(sub)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}
