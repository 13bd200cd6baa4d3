package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/donaldgifford/connect-client/internal/metrics"
)

// ErrNoTarget is returned when an event has no callback URL and the
// notifier has no default URL.
var ErrNoTarget = errors.New("no webhook target")

// WebhookNotifier implements Notifier by POSTing JSON to a webhook.
type WebhookNotifier struct {
	url    string
	client *resty.Client
}

// WebhookOption configures a WebhookNotifier.
type WebhookOption func(*WebhookNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) WebhookOption {
	return func(w *WebhookNotifier) {
		w.client = resty.NewWithClient(c)
	}
}

// NewWebhookNotifier creates a WebhookNotifier. url may be empty when
// every event carries its own CallbackURL.
func NewWebhookNotifier(url string, opts ...WebhookOption) *WebhookNotifier {
	w := &WebhookNotifier{
		url:    url,
		client: resty.New(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.client.SetTimeout(10 * time.Second).SetHeader("Content-Type", "application/json")
	return w
}

// batchPayload is the body sent by NotifyBatch.
type batchPayload struct {
	Source string     `json:"source"`
	Count  int        `json:"count"`
	Events []JobEvent `json:"events"`
}

// Notify posts a single event to its CallbackURL, or to the default URL.
func (w *WebhookNotifier) Notify(ctx context.Context, event *JobEvent) error {
	target := event.CallbackURL
	if target == "" {
		target = w.url
	}
	return w.post(ctx, target, event)
}

// NotifyBatch posts all events in one message to the default URL.
func (w *WebhookNotifier) NotifyBatch(ctx context.Context, events []JobEvent, source string) error {
	if len(events) == 0 {
		return nil
	}
	return w.post(ctx, w.url, batchPayload{Source: source, Count: len(events), Events: events})
}

func (w *WebhookNotifier) post(ctx context.Context, target string, payload any) error {
	if target == "" {
		metrics.CallbackFailuresTotal.Inc()
		return ErrNoTarget
	}

	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(target)
	if err != nil {
		metrics.CallbackFailuresTotal.Inc()
		return fmt.Errorf("sending webhook: %w", err)
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		metrics.CallbackFailuresTotal.Inc()
		return errors.New("webhook rate limited (429)")
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		metrics.CallbackFailuresTotal.Inc()
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode(), resp.Body())
	}

	metrics.CallbacksSentTotal.Inc()
	return nil
}
