package ratelimit

import "context"

// ChannelRateLimiter is an implementation of RateLimiter based on a single channel.
type ChannelRateLimiter struct {
	limiter chan struct{}
}

// NewChannelRateLimiter returns an instance of ChannelRateLimiter.
// A concurrency lower than 1 is treated as 1.
func NewChannelRateLimiter(concurrency int) *ChannelRateLimiter {
	if concurrency < 1 {
		concurrency = 1
	}
	return &ChannelRateLimiter{
		limiter: make(chan struct{}, concurrency),
	}
}

// Acquire holds on the channel until it can send a message.
func (r *ChannelRateLimiter) Acquire(ctx context.Context) error {
	select {
	case r.limiter <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release receives a message from the channel to unlock the next one.
func (r *ChannelRateLimiter) Release() {
	<-r.limiter
}
