package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/connect-client/internal/metrics"
)

func testEvent(status string) JobEvent {
	return JobEvent{
		Resource: "product_export",
		JobID:    42,
		Status:   status,
		URL:      "https://downloads.example.com/export-42.xlsx",
		At:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestWebhookNotifier_Notify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		event      JobEvent
		statusCode int
		wantErr    bool
		errMsg     string
	}{
		{
			name:       "done event is delivered",
			event:      testEvent("done"),
			statusCode: http.StatusNoContent,
		},
		{
			name:       "failed event is delivered",
			event:      testEvent("failed"),
			statusCode: http.StatusOK,
		},
		{
			name:       "webhook returns 429 rate limited",
			event:      testEvent("done"),
			statusCode: http.StatusTooManyRequests,
			wantErr:    true,
			errMsg:     "rate limited",
		},
		{
			name:       "webhook returns 400 error",
			event:      testEvent("done"),
			statusCode: http.StatusBadRequest,
			wantErr:    true,
			errMsg:     "webhook returned 400",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var received JobEvent

			srv := httptest.NewServer(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
					assert.Equal(t, http.MethodPost, r.Method)

					err := json.NewDecoder(r.Body).Decode(&received)
					assert.NoError(t, err)

					w.WriteHeader(tt.statusCode)
				}),
			)
			defer srv.Close()

			n := NewWebhookNotifier(srv.URL)
			err := n.Notify(context.Background(), &tt.event)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.event.JobID, received.JobID)
			assert.Equal(t, tt.event.Status, received.Status)
			assert.Equal(t, tt.event.URL, received.URL)
			assert.True(t, tt.event.At.Equal(received.At))
		})
	}
}

func TestWebhookNotifier_CallbackURLOverridesDefault(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	callback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer callback.Close()

	n := NewWebhookNotifier("http://127.0.0.1:1")
	event := testEvent("done")
	event.CallbackURL = callback.URL

	require.NoError(t, n.Notify(context.Background(), &event))
	assert.Equal(t, int32(1), hits.Load())
}

func TestWebhookNotifier_NoTarget(t *testing.T) {
	t.Parallel()

	n := NewWebhookNotifier("")
	event := testEvent("done")
	err := n.Notify(context.Background(), &event)
	require.ErrorIs(t, err, ErrNoTarget)
}

func TestWebhookNotifier_NotifyBatch(t *testing.T) {
	t.Parallel()

	var received batchPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := json.NewDecoder(r.Body).Decode(&received)
		assert.NoError(t, err)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	events := []JobEvent{testEvent("done"), testEvent("failed"), testEvent("canceled")}

	n := NewWebhookNotifier(srv.URL)
	err := n.NotifyBatch(context.Background(), events, "feedwatch")
	require.NoError(t, err)

	assert.Equal(t, "feedwatch", received.Source)
	assert.Equal(t, 3, received.Count)
	assert.Len(t, received.Events, 3)
}

func TestWebhookNotifier_NotifyBatch_Empty(t *testing.T) {
	t.Parallel()

	n := NewWebhookNotifier("http://127.0.0.1:1")
	require.NoError(t, n.NotifyBatch(context.Background(), nil, "feedwatch"))
}

func TestWebhookNotifier_NetworkError(t *testing.T) {
	t.Parallel()

	n := NewWebhookNotifier("http://127.0.0.1:1") // nothing listening
	event := testEvent("done")
	err := n.Notify(context.Background(), &event)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sending webhook")
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	custom := &http.Client{}
	n := NewWebhookNotifier("https://example.com", WithHTTPClient(custom))
	assert.Same(t, custom, n.client.GetClient())
}

func TestNotify_CountsCallbacks(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	before := testutil.ToFloat64(metrics.CallbacksSentTotal)

	n := NewWebhookNotifier(srv.URL)
	event := testEvent("done")
	require.NoError(t, n.Notify(context.Background(), &event))

	assert.Greater(t, testutil.ToFloat64(metrics.CallbacksSentTotal), before)
}

// compile-time interface check.
var _ Notifier = (*WebhookNotifier)(nil)
