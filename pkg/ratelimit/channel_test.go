package ratelimit_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/radiofrance/dagspec/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ratelimit.RateLimiter = (*ratelimit.ChannelRateLimiter)(nil)

func Test_ChannelRateLimiter_LimitsConcurrency(t *testing.T) {
	t.Parallel()

	limiter := ratelimit.NewChannelRateLimiter(2)

	var running, maxRunning atomic.Int32
	var wg sync.WaitGroup
	for range 6 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			require.NoError(t, limiter.Acquire(context.Background()))
			defer limiter.Release()

			current := running.Add(1)
			for {
				previous := maxRunning.Load()
				if current <= previous || maxRunning.CompareAndSwap(previous, current) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			running.Add(-1)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, maxRunning.Load(), int32(2))
	assert.Positive(t, maxRunning.Load())
}

func Test_ChannelRateLimiter_AcquireHonorsContext(t *testing.T) {
	t.Parallel()

	limiter := ratelimit.NewChannelRateLimiter(0)
	require.NoError(t, limiter.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := limiter.Acquire(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	limiter.Release()
	require.NoError(t, limiter.Acquire(context.Background()))
}
