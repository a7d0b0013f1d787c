package pixabay_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/image-finder/internal/pixabay"
)

func TestRateLimiter_AllowsBurst(t *testing.T) {
	t.Parallel()

	rl := pixabay.NewRateLimiter(5)
	for range 5 {
		require.NoError(t, rl.Wait(context.Background()))
	}
	assert.Less(t, rl.Tokens(), 1.0)
}

func TestRateLimiter_BlocksWhenExhausted(t *testing.T) {
	t.Parallel()

	rl := pixabay.NewRateLimiter(1)
	require.NoError(t, rl.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := rl.Wait(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter wait")
}

func TestRateLimiter_DefaultsNonPositive(t *testing.T) {
	t.Parallel()

	rl := pixabay.NewRateLimiter(0)
	assert.InDelta(t, float64(pixabay.DefaultRequestsPerMinute), rl.Tokens(), 1)
}
