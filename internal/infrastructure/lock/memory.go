// Package lock provides the per-key lockers used to serialize user mutations.
// MemoryLocker serves single-instance deployments, RedisLocker shares locks
// across instances.
package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type lease struct {
	token     string
	expiresAt time.Time
}

// MemoryLocker implements ports.Locker with an in-process map of leases.
// Expired leases are reclaimed lazily by the next Acquire.
type MemoryLocker struct {
	mu     sync.Mutex
	leases map[string]lease
	now    func() time.Time
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{
		leases: make(map[string]lease),
		now:    time.Now,
	}
}

func (m *MemoryLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if l, held := m.leases[key]; held && now.Before(l.expiresAt) {
		return "", false, nil
	}
	token := uuid.NewString()
	m.leases[key] = lease{token: token, expiresAt: now.Add(ttl)}
	return token, true, nil
}

func (m *MemoryLocker) AcquireWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (string, bool, error) {
	return acquireWithRetry(ctx, maxRetries, retryDelay, func(ctx context.Context) (string, bool, error) {
		return m.Acquire(ctx, key, ttl)
	})
}

// Release frees key only while it is still held under token. An expired
// lease that nobody re-acquired is released normally.
func (m *MemoryLocker) Release(_ context.Context, key, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, held := m.leases[key]
	if !held || l.token != token {
		return false, nil
	}
	delete(m.leases, key)
	return true, nil
}
