package connect

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultQuotaWindow = 24 * time.Hour

// ErrQuotaExhausted is returned by RateLimiter.Wait when the request quota
// for the current window has been used up.
var ErrQuotaExhausted = errors.New("request quota exhausted")

// RateLimiter throttles outgoing API requests with a token bucket and caps
// the number of requests per rolling quota window. The window opens on the
// first request after the previous one expired.
type RateLimiter struct {
	limiter *rate.Limiter
	quota   int64
	window  time.Duration
	nowFunc func() time.Time

	mu      sync.Mutex
	count   int64
	resetAt time.Time
}

// RateLimiterOption configures the RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithQuotaWindow overrides the default 24h quota window.
func WithQuotaWindow(d time.Duration) RateLimiterOption {
	return func(r *RateLimiter) {
		r.window = d
	}
}

// WithRateLimiterNowFunc overrides the time function for testing.
func WithRateLimiterNowFunc(f func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		r.nowFunc = f
	}
}

// NewRateLimiter creates a limiter allowing perSecond requests with the
// given burst, and at most quota requests per window. A quota <= 0 disables
// the window cap.
func NewRateLimiter(
	perSecond float64,
	burst int,
	quota int64,
	opts ...RateLimiterOption,
) *RateLimiter {
	r := &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		quota:   quota,
		window:  defaultQuotaWindow,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Wait blocks until a request may be sent or ctx is done. It fails with
// ErrQuotaExhausted without blocking when the window quota is used up.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.reserve(); err != nil {
		return err
	}

	if err := r.limiter.Wait(ctx); err != nil {
		r.release()
		return fmt.Errorf("rate limiter wait: %w", err)
	}
	return nil
}

func (r *RateLimiter) reserve() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowFunc()
	if r.resetAt.IsZero() || !now.Before(r.resetAt) {
		r.count = 0
		r.resetAt = now.Add(r.window)
	}

	if r.quota > 0 && r.count >= r.quota {
		return fmt.Errorf("%w (%d/%d, resets at %s)",
			ErrQuotaExhausted, r.count, r.quota, r.resetAt.Format(time.RFC3339))
	}
	r.count++
	return nil
}

func (r *RateLimiter) release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.count > 0 {
		r.count--
	}
}

// Count returns the number of requests admitted in the current window.
func (r *RateLimiter) Count() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Remaining returns the requests left in the current window, or -1 when no
// quota is configured.
func (r *RateLimiter) Remaining() int64 {
	if r.quota <= 0 {
		return -1
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return max(r.quota-r.count, 0)
}

// ResetAt returns when the current quota window closes. It is the zero
// time before the first request.
func (r *RateLimiter) ResetAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetAt
}
