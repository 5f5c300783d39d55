package ports

import (
	"context"
	"time"
)

// Locker provides mutual exclusion by key, either in-process or across
// instances. Every successful acquire hands out a lease token; only the
// holder of that token can release the lease.
type Locker interface {
	// Acquire attempts to take the lock once. It reports false if another
	// holder has it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)

	// AcquireWithRetry retries Acquire up to maxRetries times, waiting
	// retryDelay between attempts.
	AcquireWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (token string, ok bool, err error)

	// Release frees the lease identified by token. It reports false if the
	// key is free or held under another token.
	Release(ctx context.Context, key, token string) (bool, error)
}
