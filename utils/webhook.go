package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// WebhookEvent is the body posted for every outbound event
type WebhookEvent struct {
	Event     string    `json:"event"`
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// WebhookClient posts platform events to a single configured URL
type WebhookClient struct {
	client *resty.Client
	url    string
}

func NewWebhookClient(url string, timeout time.Duration) *WebhookClient {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "lms-webhooks/1.0")
	return &WebhookClient{client: client, url: url}
}

// Fire delivers one event. Any non-2xx response is an error.
func (w *WebhookClient) Fire(ctx context.Context, event string, payload any) error {
	body := WebhookEvent{
		Event:     event,
		EventID:   uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Data:      payload,
	}

	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("X-LMS-Event", event).
		SetBody(body).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("webhook %s: %w", event, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("webhook %s: unexpected status %d: %s", event, resp.StatusCode(), resp.String())
	}

	log.Printf("[WEBHOOK] Delivered %s (%s)", event, body.EventID)
	return nil
}
