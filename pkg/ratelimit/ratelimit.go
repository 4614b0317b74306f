package ratelimit

import "context"

// RateLimiter is an abstraction for rate limiting.
type RateLimiter interface {
	// Acquire waits until a slot is available, or until the context is done.
	Acquire(ctx context.Context) error
	// Release frees the slot taken by a successful Acquire.
	Release()
}
