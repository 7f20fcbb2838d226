package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/flowgrid/internal/stats"
	"resty.dev/v3"
)

// HTTPSink POSTs the JSON-encoded report to a configured collector URL
// using a shared resty client, in the manner of a stateful HTTP asset
// whose lifecycle (create once, reuse, close idle connections) outlives
// any single request.
type HTTPSink struct {
	URL     string
	client  *resty.Client
	Timeout time.Duration
}

// NewHTTPSink creates an HTTPSink posting to url, with its own resty
// client configured with the given timeout (5s if timeout <= 0).
func NewHTTPSink(url string, timeout time.Duration) *HTTPSink {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPSink{
		URL:     url,
		client:  resty.New().SetTimeout(timeout),
		Timeout: timeout,
	}
}

// Close releases the sink's underlying HTTP client resources.
func (s *HTTPSink) Close() error {
	return s.client.Close()
}

// Publish POSTs report as JSON to the sink's configured URL.
func (s *HTTPSink) Publish(ctx context.Context, report stats.Report) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(report).
		SetHeader("Content-Type", "application/json").
		Post(s.URL)
	if err != nil {
		return fmt.Errorf("telemetry: post report: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("telemetry: collector returned %s", resp.Status())
	}
	return nil
}
