package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fanmerch/storefront/internal/core/domain"
)

var nopLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.User
	createErr error
	updateErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.byID[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	if _, ok := r.byID[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	r.byID[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Credentials
// ---------------------------------------------------------------------------

// fakeHasher is a deterministic stand-in for bcrypt.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Verify(hash, password string) bool { return hash == "hashed:"+password }

// fakeTokens encodes claims as "tok|<id>|<email>".
type fakeTokens struct {
	signed int
}

func (f *fakeTokens) Sign(c domain.TokenClaims) (string, error) {
	f.signed++
	return "tok|" + c.UserID + "|" + c.Email, nil
}

func (f *fakeTokens) Verify(token string) (domain.TokenClaims, error) {
	parts := strings.Split(token, "|")
	if len(parts) != 3 || parts[0] != "tok" {
		return domain.TokenClaims{}, domain.ErrInvalidToken
	}
	return domain.TokenClaims{UserID: parts[1], Email: parts[2]}, nil
}

// ---------------------------------------------------------------------------
// Locker
// ---------------------------------------------------------------------------

// blockingLocker serializes every key through one mutex.
type blockingLocker struct {
	mu       sync.Mutex
	acquired int
	fail     error
}

func (l *blockingLocker) Acquire(_ context.Context, _ string, _ time.Duration) (string, bool, error) {
	if l.fail != nil {
		return "", false, l.fail
	}
	if !l.mu.TryLock() {
		return "", false, nil
	}
	return "lease", true, nil
}

func (l *blockingLocker) AcquireWithRetry(_ context.Context, _ string, _ time.Duration, _ int, _ time.Duration) (string, bool, error) {
	if l.fail != nil {
		return "", false, l.fail
	}
	l.mu.Lock()
	l.acquired++
	return "lease", true, nil
}

func (l *blockingLocker) Release(_ context.Context, _, token string) (bool, error) {
	if token != "lease" {
		return false, nil
	}
	l.mu.Unlock()
	return true, nil
}

// ---------------------------------------------------------------------------
// Wishlists and subscriptions
// ---------------------------------------------------------------------------

type stubWishlistRepo struct {
	mu     sync.Mutex
	lists  map[string][]domain.Product
	putErr error
}

func newStubWishlistRepo() *stubWishlistRepo {
	return &stubWishlistRepo{lists: make(map[string][]domain.Product)}
}

func (r *stubWishlistRepo) Get(_ context.Context, userID string) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items, ok := r.lists[userID]
	if !ok {
		return nil, domain.ErrWishlistNotFound
	}
	return append([]domain.Product(nil), items...), nil
}

func (r *stubWishlistRepo) Put(_ context.Context, userID string, items []domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.putErr != nil {
		return r.putErr
	}
	r.lists[userID] = append([]domain.Product(nil), items...)
	return nil
}

type stubSubscriptionRepo struct {
	byUser  map[string]*domain.Subscription
	saves   int
	saveErr error
}

func newStubSubscriptionRepo() *stubSubscriptionRepo {
	return &stubSubscriptionRepo{byUser: make(map[string]*domain.Subscription)}
}

func (r *stubSubscriptionRepo) FindByUser(_ context.Context, userID string) (*domain.Subscription, error) {
	s, ok := r.byUser[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubSubscriptionRepo) Save(_ context.Context, sub *domain.Subscription) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	clone := *sub
	r.byUser[sub.UserID] = &clone
	return nil
}

func (r *stubSubscriptionRepo) List(_ context.Context) ([]*domain.Subscription, error) {
	out := make([]*domain.Subscription, 0, len(r.byUser))
	for _, s := range r.byUser {
		clone := *s
		out = append(out, &clone)
	}
	return out, nil
}

var errBoom = errors.New("boom")
