package main

import "errors"

// KnownMetrics is the set of metric names exported by the connect client
// plus recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// Request metrics.
	"connect_request_duration_seconds": true,
	"connect_requests_total":           true,
	"connect_errors_total":             true,

	// Token metrics.
	"connect_token_refreshes_total":        true,
	"connect_token_refresh_failures_total": true,
	"connect_token_cache_hits_total":       true,

	// Rate limit metrics.
	"connect_rate_limit_window_usage": true,
	"connect_rate_limit_hits_total":   true,

	// Feed job metrics.
	"connect_feed_jobs_watched":       true,
	"connect_feed_job_polls_total":    true,
	"connect_feed_jobs_settled_total": true,
	"connect_callbacks_sent_total":    true,
	"connect_callback_failures_total": true,

	// Recording rules.
	"connect:requests:rate5m":        true,
	"connect:requests_by_op:rate5m":  true,
	"connect:errors:rate5m":          true,
	"connect:token_refreshes:rate5m": true,
	"connect:feed_job_polls:rate5m":  true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
