// Package ratelimit bounds the completion call rate across the whole
// process. A single Limiter is shared by every pipeline worker, so the
// configured rate holds regardless of how many documents run in
// parallel.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
)

// defaultBackoffSeconds is applied when a rate limit response carries
// no Retry-After hint.
const defaultBackoffSeconds = 30

// Limiter provides rate limiting for completion backend requests.
// It uses a token bucket algorithm with optional backoff for 429 responses.
type Limiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// New creates a limiter from rate limit settings.
// Zero or negative settings fall back to the domain defaults.
func New(cfg domain.RateLimitSettings) *Limiter {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = domain.DefaultRequestsPerSecond
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = domain.DefaultBurst
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Wait blocks until a request can be made without exceeding the rate limit.
// It also respects any backoff period set by RecordRateLimitError.
func (l *Limiter) Wait(ctx context.Context) error {
	// First, check for backoff from previous rate limit errors
	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if time.Now().Before(retryAt) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(retryAt)):
		}
	}

	// Then wait for the token bucket
	return l.limiter.Wait(ctx)
}

// RecordRateLimitError records a rate limit error and sets a backoff period.
// Call this when receiving a 429 response from the completion backend.
func (l *Limiter) RecordRateLimitError(retryAfterSeconds int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if retryAfterSeconds <= 0 {
		retryAfterSeconds = defaultBackoffSeconds
	}

	l.retryAt = time.Now().Add(time.Duration(retryAfterSeconds) * time.Second)
}

// Allow checks if a request can be made immediately without blocking.
// Returns true if the request is allowed, false if it would exceed the rate limit.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if time.Now().Before(retryAt) {
		return false
	}

	return l.limiter.Allow()
}
