package connect_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/connect-client/pkg/connect"
)

func TestRateLimiter_Wait(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rate    float64
		burst   int
		quota   int64
		calls   int
		wantErr bool
	}{
		{
			name:  "allows calls within rate",
			rate:  100,
			burst: 10,
			quota: 5000,
			calls: 3,
		},
		{
			name:  "allows burst",
			rate:  100,
			burst: 5,
			quota: 5000,
			calls: 5,
		},
		{
			name:  "no quota",
			rate:  100,
			burst: 10,
			calls: 20,
		},
		{
			name:    "rejects when quota reached",
			rate:    100,
			burst:   10,
			quota:   2,
			calls:   3,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rl := connect.NewRateLimiter(tt.rate, tt.burst, tt.quota)

			var lastErr error
			for range tt.calls {
				lastErr = rl.Wait(context.Background())
				if lastErr != nil {
					break
				}
			}

			if tt.wantErr {
				require.ErrorIs(t, lastErr, connect.ErrQuotaExhausted)
			} else {
				require.NoError(t, lastErr)
			}
		})
	}
}

func TestRateLimiter_Count(t *testing.T) {
	t.Parallel()

	rl := connect.NewRateLimiter(100, 10, 5)

	assert.Equal(t, int64(0), rl.Count())
	assert.Equal(t, int64(5), rl.Remaining())
	assert.True(t, rl.ResetAt().IsZero())

	require.NoError(t, rl.Wait(context.Background()))
	require.NoError(t, rl.Wait(context.Background()))

	assert.Equal(t, int64(2), rl.Count())
	assert.Equal(t, int64(3), rl.Remaining())
	assert.False(t, rl.ResetAt().IsZero())

	assert.Equal(t, int64(-1), connect.NewRateLimiter(100, 10, 0).Remaining())
}

func TestRateLimiter_WindowReset(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	currentTime := now

	rl := connect.NewRateLimiter(
		100, 10, 2,
		connect.WithQuotaWindow(time.Hour),
		connect.WithRateLimiterNowFunc(func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return currentTime
		}),
	)

	require.NoError(t, rl.Wait(context.Background()))
	require.NoError(t, rl.Wait(context.Background()))
	require.ErrorIs(t, rl.Wait(context.Background()), connect.ErrQuotaExhausted)
	assert.Equal(t, now.Add(time.Hour), rl.ResetAt())

	mu.Lock()
	currentTime = now.Add(61 * time.Minute)
	mu.Unlock()

	require.NoError(t, rl.Wait(context.Background()))
	assert.Equal(t, int64(1), rl.Count())
}

func TestRateLimiter_ContextCanceled(t *testing.T) {
	t.Parallel()

	// 1 per 10 seconds, burst 1.
	rl := connect.NewRateLimiter(0.1, 1, 5000)

	require.NoError(t, rl.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := rl.Wait(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter wait")
	// The canceled wait does not use up quota.
	assert.Equal(t, int64(1), rl.Count())
}
