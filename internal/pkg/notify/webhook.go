package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// WebhookNotifier POSTs attendance events to an external subscriber endpoint.
// It sits behind a circuit breaker to avoid hammering the subscriber if it's
// having issues; attendance writes never wait on it.
type WebhookNotifier struct {
	client *http.Client
	url    string
	cb     *gobreaker.CircuitBreaker
}

type webhookEnvelope struct {
	Kind       string      `json:"kind"`
	Payload    interface{} `json:"payload"`
	OccurredAt time.Time   `json:"occurred_at"`
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	settings := gobreaker.Settings{
		Name:        "attendance-webhook",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip if failure rate is bigger than 50% after at least 10 requests
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
	}

	return &WebhookNotifier{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		url: url,
		cb:  gobreaker.NewCircuitBreaker(settings),
	}
}

func (n *WebhookNotifier) Publish(ctx context.Context, kind string, payload interface{}) error {
	_, err := n.cb.Execute(func() (interface{}, error) {
		return nil, n.post(ctx, kind, payload)
	})

	if errors.Is(err, gobreaker.ErrOpenState) {
		slog.Warn("Webhook circuit breaker is open, dropping event", "kind", kind)
		return nil
	}

	return err
}

func (n *WebhookNotifier) post(ctx context.Context, kind string, payload interface{}) error {
	body, err := json.Marshal(webhookEnvelope{
		Kind:       kind,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned non-successful status code: %d", resp.StatusCode)
	}

	return nil
}
