package notify

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"
)

// WebhookNotifier posts notifications as JSON to a fixed URL.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier returns nil when url is empty.
func NewWebhookNotifier(url string) *WebhookNotifier {
	if url == "" {
		return nil
	}
	return &WebhookNotifier{url: url, client: &http.Client{Timeout: 10 * time.Second}}
}

// Notify posts the notification and expects a 2xx response.
func (w *WebhookNotifier) Notify(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded %d", resp.StatusCode)
	}
	return nil
}
