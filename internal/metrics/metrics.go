// Package metrics defines Prometheus metrics for the Connect client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "connect"

// Request metrics. The op label is the repository operation
// (e.g. "designs.submit"), never a raw path.
var (
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of Connect API requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op", "method"})

	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of Connect API requests by response status.",
	}, []string{"op", "method", "status"})

	ErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "errors_total",
		Help:      "Total number of errors returned to callers by kind and resource.",
	}, []string{"kind", "resource"})
)

// Token metrics.
var (
	TokenRefreshesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of successful client-credentials exchanges.",
	})

	TokenRefreshFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_failures_total",
		Help:      "Total number of failed client-credentials exchanges.",
	})

	TokenCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_cache_hits_total",
		Help:      "Total number of tokens served from the shared token cache.",
	})
)

// Rate limit metrics.
var (
	RateLimitUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rate_limit_window_usage",
		Help:      "Requests admitted in the current client-side quota window.",
	})

	RateLimitHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_hits_total",
		Help:      "Total number of requests rejected because the quota was exhausted.",
	})
)

// Feed job watcher metrics.
var (
	FeedJobsWatched = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "feed_jobs_watched",
		Help:      "Feed jobs currently being polled.",
	})

	FeedJobPollsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_job_polls_total",
		Help:      "Total number of feed job status polls.",
	})

	FeedJobsSettledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_jobs_settled_total",
		Help:      "Total number of feed jobs that reached a terminal status.",
	}, []string{"status"})
)

// Callback metrics.
var (
	CallbacksSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "callbacks_sent_total",
		Help:      "Total number of job completion callbacks delivered.",
	})

	CallbackFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "callback_failures_total",
		Help:      "Total number of job completion callback delivery failures.",
	})
)
