// Package notify delivers feed job completion events to webhooks.
package notify

import (
	"context"
	"time"
)

// JobEvent describes a product feed job that reached a terminal status.
type JobEvent struct {
	// Resource is "product_export" or "product_import".
	Resource string    `json:"resource"`
	JobID    int       `json:"id"`
	Status   string    `json:"status"`
	URL      string    `json:"download_url,omitempty"`
	Error    string    `json:"error,omitempty"`
	At       time.Time `json:"settled_at"`

	// CallbackURL overrides the notifier's default target for this event.
	CallbackURL string `json:"-"`
}

// Notifier delivers job events.
type Notifier interface {
	Notify(ctx context.Context, event *JobEvent) error
	NotifyBatch(ctx context.Context, events []JobEvent, source string) error
}
