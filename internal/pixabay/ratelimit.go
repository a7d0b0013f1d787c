package pixabay

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// DefaultRequestsPerMinute is Pixabay's documented per-key limit
const DefaultRequestsPerMinute = 100

// RateLimiter spaces out API calls with a token bucket.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter allows perMinute requests per minute with a burst of the
// same size, so a fresh client is never throttled on its first page.
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = DefaultRequestsPerMinute
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
	}
}

// Wait blocks until a request is allowed or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}
	return nil
}

// Tokens returns the number of requests currently available without waiting.
func (r *RateLimiter) Tokens() float64 {
	return r.limiter.Tokens()
}
