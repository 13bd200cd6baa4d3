package notify

import (
	"context"
	"log/slog"
)

// NoOpNotifier implements Notifier by logging discarded events. It is used
// when no webhook is configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards events with a log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// Notify logs and discards a single event.
func (n *NoOpNotifier) Notify(_ context.Context, event *JobEvent) error {
	n.log.Debug("job event discarded (no webhook configured)",
		"resource", event.Resource,
		"id", event.JobID,
		"status", event.Status,
	)
	return nil
}

// NotifyBatch logs and discards a batch of events.
func (n *NoOpNotifier) NotifyBatch(_ context.Context, events []JobEvent, source string) error {
	n.log.Debug("job event batch discarded (no webhook configured)",
		"source", source,
		"count", len(events),
	)
	return nil
}
