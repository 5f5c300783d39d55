package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fanmerch/storefront/internal/core/ports"
)

const (
	lockTTL        = 10 * time.Second
	lockRetries    = 100
	lockRetryDelay = 10 * time.Millisecond
)

var errLockTimeout = errors.New("lock not acquired")

func userLockKey(userID string) string {
	return "lock:user:" + userID
}

func signupLockKey(email string) string {
	return "lock:signup:" + email
}

// withLock runs fn while holding key and frees only its own lease. Release uses a context detached from
// cancellation so a cancelled request still frees its lock.
func withLock(ctx context.Context, locker ports.Locker, key string, fn func() error) error {
	token, ok, err := locker.AcquireWithRetry(ctx, key, lockTTL, lockRetries, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire %s: %w", key, err)
	}
	if !ok {
		return fmt.Errorf("acquire %s: %w", key, errLockTimeout)
	}
	defer func() {
		_, _ = locker.Release(context.WithoutCancel(ctx), key, token)
	}()
	return fn()
}
