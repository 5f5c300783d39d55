package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fanmerch/storefront/internal/infrastructure/lock"
)

func TestWithLock_ReleasesOwnLease(t *testing.T) {
	locker := lock.NewMemoryLocker()
	ctx := context.Background()

	ran := false
	err := withLock(ctx, locker, "lock:user:u1", func() error {
		ran = true
		if _, ok, _ := locker.Acquire(ctx, "lock:user:u1", time.Minute); ok {
			t.Errorf("expected the key to be held inside fn")
		}
		return errBoom
	})
	if !errors.Is(err, errBoom) || !ran {
		t.Fatalf("expected fn error to pass through, got %v", err)
	}

	token, ok, _ := locker.Acquire(ctx, "lock:user:u1", time.Minute)
	if !ok {
		t.Fatalf("expected the key to be free after withLock")
	}
	_, _ = locker.Release(ctx, "lock:user:u1", token)
}

func TestWithLock_GivesUpWhileHeld(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the full retry budget")
	}
	locker := lock.NewMemoryLocker()
	ctx := context.Background()
	_, _, _ = locker.Acquire(ctx, "lock:user:u1", time.Minute)

	err := withLock(ctx, locker, "lock:user:u1", func() error {
		t.Fatalf("fn must not run without the lock")
		return nil
	})
	if !errors.Is(err, errLockTimeout) {
		t.Fatalf("expected errLockTimeout, got %v", err)
	}
}
