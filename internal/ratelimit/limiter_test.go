package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
)

// TestNew_Defaults tests that zero settings fall back to defaults
func TestNew_Defaults(t *testing.T) {
	l := New(domain.RateLimitSettings{})
	require.NotNil(t, l)

	// A fresh bucket with default burst allows immediate requests.
	assert.True(t, l.Allow())
}

// TestLimiter_Wait_Immediate tests that a fresh limiter does not block
func TestLimiter_Wait_Immediate(t *testing.T) {
	l := New(domain.RateLimitSettings{RequestsPerSecond: 100, Burst: 10})

	start := time.Now()
	err := l.Wait(context.Background())
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

// TestLimiter_Wait_CancelledContext tests cancellation during backoff
func TestLimiter_Wait_CancelledContext(t *testing.T) {
	l := New(domain.RateLimitSettings{RequestsPerSecond: 100, Burst: 1})
	l.RecordRateLimitError(60)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// TestLimiter_Allow_DuringBackoff tests that backoff blocks Allow
func TestLimiter_Allow_DuringBackoff(t *testing.T) {
	l := New(domain.RateLimitSettings{RequestsPerSecond: 100, Burst: 10})

	assert.True(t, l.Allow())

	l.RecordRateLimitError(60)
	assert.False(t, l.Allow())
}

// TestLimiter_RecordRateLimitError_DefaultBackoff tests the fallback backoff
func TestLimiter_RecordRateLimitError_DefaultBackoff(t *testing.T) {
	l := New(domain.RateLimitSettings{RequestsPerSecond: 100, Burst: 10})

	// No Retry-After hint still produces a backoff window.
	l.RecordRateLimitError(0)
	assert.False(t, l.Allow())
}

// TestLimiter_BackoffExpires tests that a short backoff clears
func TestLimiter_BackoffExpires(t *testing.T) {
	l := New(domain.RateLimitSettings{RequestsPerSecond: 100, Burst: 10})

	l.RecordRateLimitError(1)
	assert.False(t, l.Allow())

	time.Sleep(1100 * time.Millisecond)
	assert.True(t, l.Allow())
}

// TestLimiter_SharedAcrossGoroutines tests concurrent use
func TestLimiter_SharedAcrossGoroutines(t *testing.T) {
	l := New(domain.RateLimitSettings{RequestsPerSecond: 1000, Burst: 100})

	done := make(chan error, 20)
	for i := 0; i < 20; i++ {
		go func() {
			done <- l.Wait(context.Background())
		}()
	}

	for i := 0; i < 20; i++ {
		require.NoError(t, <-done)
	}
}
