package lock

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryLocker_AcquireRelease(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	token, ok, err := l.Acquire(ctx, "k", time.Minute)
	if err != nil || !ok || token == "" {
		t.Fatalf("expected first acquire to succeed, got %q %v %v", token, ok, err)
	}
	if _, ok, _ := l.Acquire(ctx, "k", time.Minute); ok {
		t.Fatalf("expected second acquire to fail while held")
	}
	if _, ok, _ := l.Acquire(ctx, "other", time.Minute); !ok {
		t.Fatalf("expected independent key to be free")
	}

	if released, _ := l.Release(ctx, "k", "someone-else"); released {
		t.Fatalf("expected release with a foreign token to be refused")
	}
	if released, _ := l.Release(ctx, "k", token); !released {
		t.Fatalf("expected release to report held lock")
	}
	if released, _ := l.Release(ctx, "k", token); released {
		t.Fatalf("expected second release to report not held")
	}
	if _, ok, _ := l.Acquire(ctx, "k", time.Minute); !ok {
		t.Fatalf("expected acquire after release to succeed")
	}
}

func TestMemoryLocker_ExpiredLeaseIsReclaimed(t *testing.T) {
	ref := time.Date(2026, 2, 19, 10, 0, 0, 0, time.UTC)
	l := NewMemoryLocker()
	l.now = func() time.Time { return ref }

	_, _, _ = l.Acquire(context.Background(), "k", time.Second)

	l.now = func() time.Time { return ref.Add(2 * time.Second) }
	if _, ok, _ := l.Acquire(context.Background(), "k", time.Second); !ok {
		t.Fatalf("expected expired lease to be reclaimed")
	}
}

func TestMemoryLocker_LateReleaseKeepsNewLease(t *testing.T) {
	ref := time.Date(2026, 2, 19, 10, 0, 0, 0, time.UTC)
	l := NewMemoryLocker()
	ctx := context.Background()
	l.now = func() time.Time { return ref }

	first, _, _ := l.Acquire(ctx, "k", time.Millisecond)

	l.now = func() time.Time { return ref.Add(time.Second) }
	second, ok, _ := l.Acquire(ctx, "k", time.Minute)
	if !ok {
		t.Fatalf("expected expired lease to be taken over")
	}

	if released, _ := l.Release(ctx, "k", first); released {
		t.Fatalf("expected the expired holder's release to be refused")
	}
	if _, ok, _ := l.Acquire(ctx, "k", time.Minute); ok {
		t.Fatalf("expected key to stay held by the second holder")
	}
	if released, _ := l.Release(ctx, "k", second); !released {
		t.Fatalf("expected the current holder to release")
	}
}

func TestMemoryLocker_AcquireWithRetry(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()
	token, _, _ := l.Acquire(ctx, "k", time.Minute)

	go func() {
		time.Sleep(20 * time.Millisecond)
		_, _ = l.Release(ctx, "k", token)
	}()

	got, ok, err := l.AcquireWithRetry(ctx, "k", time.Minute, 100, 5*time.Millisecond)
	if err != nil || !ok {
		t.Fatalf("expected retry to acquire after release, got %v %v", ok, err)
	}
	if got == "" || got == token {
		t.Fatalf("expected a fresh lease token, got %q", got)
	}
}

func TestMemoryLocker_AcquireWithRetryGivesUp(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()
	_, _, _ = l.Acquire(ctx, "k", time.Minute)

	token, ok, err := l.AcquireWithRetry(ctx, "k", time.Minute, 2, time.Millisecond)
	if err != nil || ok || token != "" {
		t.Fatalf("expected give-up without error, got %q %v %v", token, ok, err)
	}
}

func TestMemoryLocker_CancelledContext(t *testing.T) {
	l := NewMemoryLocker()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := l.Acquire(ctx, "k", time.Minute); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, _, err := l.AcquireWithRetry(ctx, "k", time.Minute, 3, time.Millisecond); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled from retry, got %v", err)
	}
}
