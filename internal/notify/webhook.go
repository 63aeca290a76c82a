package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jenli/leadbot/internal/lead"
)

// WebhookSink POSTs the raw record JSON to an external endpoint, usually
// a CRM or spreadsheet bridge.
type WebhookSink struct {
	url    string
	client *http.Client
}

// NewWebhookSink returns nil when no endpoint is configured.
func NewWebhookSink(url string, client *http.Client) *WebhookSink {
	if url == "" {
		return nil
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &WebhookSink{url: url, client: client}
}

func (s *WebhookSink) Name() string { return "webhook" }

func (s *WebhookSink) Deliver(ctx context.Context, rec lead.Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode lead: %w", err)
	}
	return postJSON(ctx, s.client, s.url, body)
}

func postJSON(ctx context.Context, client *http.Client, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("post: unexpected status %d", resp.StatusCode)
	}
	return nil
}
