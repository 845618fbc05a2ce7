package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// WebhookMessenger POSTs each notice as JSON to a messaging gateway.
type WebhookMessenger struct {
	httpClient *resty.Client
	url        string
}

func NewWebhookMessenger(url string) *WebhookMessenger {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &WebhookMessenger{httpClient: client, url: url}
}

func (m *WebhookMessenger) Send(ctx context.Context, n Notice) error {
	resp, err := m.httpClient.R().
		SetContext(ctx).
		SetBody(n).
		Post(m.url)
	if err != nil {
		return fmt.Errorf("failed to call webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}
	return nil
}
