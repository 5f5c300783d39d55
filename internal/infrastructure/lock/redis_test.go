package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLocker(client, "test:"), mr
}

func TestRedisLocker_AcquireRelease(t *testing.T) {
	l, mr := newRedisLocker(t)
	ctx := context.Background()

	token, ok, err := l.Acquire(ctx, "k", time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected first acquire to succeed, got %v %v", ok, err)
	}
	if got, _ := mr.Get("test:k"); got != token {
		t.Fatalf("stored value = %q, want lease token %q", got, token)
	}
	if ttl := mr.TTL("test:k"); ttl != time.Minute {
		t.Fatalf("ttl = %v, want 1m", ttl)
	}

	if _, ok, _ := l.Acquire(ctx, "k", time.Minute); ok {
		t.Fatalf("expected contention while held")
	}
	if released, _ := l.Release(ctx, "k", "someone-else"); released {
		t.Fatalf("expected release with a foreign token to be refused")
	}
	if released, err := l.Release(ctx, "k", token); err != nil || !released {
		t.Fatalf("expected release to succeed, got %v %v", released, err)
	}
	if mr.Exists("test:k") {
		t.Fatalf("expected key to be deleted")
	}
}

func TestRedisLocker_LateReleaseKeepsNewLease(t *testing.T) {
	l, mr := newRedisLocker(t)
	ctx := context.Background()

	first, _, _ := l.Acquire(ctx, "k", time.Second)
	mr.FastForward(2 * time.Second)

	second, ok, _ := l.Acquire(ctx, "k", time.Minute)
	if !ok {
		t.Fatalf("expected expired lease to be reclaimed")
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

func TestRedisLocker_AcquireWithRetry(t *testing.T) {
	l, _ := newRedisLocker(t)
	ctx := context.Background()
	token, _, _ := l.Acquire(ctx, "k", time.Minute)

	if _, ok, err := l.AcquireWithRetry(ctx, "k", time.Minute, 2, time.Millisecond); err != nil || ok {
		t.Fatalf("expected give-up without error, got %v %v", ok, err)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		_, _ = l.Release(ctx, "k", token)
	}()
	if _, ok, err := l.AcquireWithRetry(ctx, "k", time.Minute, 100, 5*time.Millisecond); err != nil || !ok {
		t.Fatalf("expected retry to acquire after release, got %v %v", ok, err)
	}
}

func TestRedisLocker_ServerDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	l := NewRedisLocker(client, "test:")

	if _, _, err := l.Acquire(context.Background(), "k", time.Minute); err == nil {
		t.Fatalf("expected an error when redis is unreachable")
	}
}
