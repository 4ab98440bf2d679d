package ratelimit

import (
	"context"
	"time"
)

// Store counts hits per key in fixed windows.
type Store interface {
	// Allow records one hit for key. When the window is exhausted it returns
	// false and how long until the window resets.
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}
