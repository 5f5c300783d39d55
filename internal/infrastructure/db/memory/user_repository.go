package memory

import (
	"context"
	"sync"

	"github.com/fanmerch/storefront/internal/core/domain"
)

type UserRepository struct {
	// mu makes the email uniqueness check and the insert one step.
	mu      sync.Mutex
	byID    *Store[domain.User]
	byEmail *Store[string]
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    NewStore[domain.User](nil),
		byEmail: NewStore[string](nil),
	}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.byEmail.PutIfAbsent(user.Email, user.ID) {
		return nil, domain.ErrUserExists
	}
	r.byID.Put(user.ID, *user)
	created := *user
	return &created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	id, ok := r.byEmail.Get(email)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID.Get(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

// Update replaces the stored record. The email index is not touched since
// profile updates never change the email.
func (r *UserRepository) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID.Get(user.ID); !ok {
		return nil, domain.ErrUserNotFound
	}
	r.byID.Put(user.ID, *user)
	updated := *user
	return &updated, nil
}

func (r *UserRepository) List(_ context.Context) ([]*domain.User, error) {
	values := r.byID.Values()
	out := make([]*domain.User, len(values))
	for i := range values {
		out[i] = &values[i]
	}
	return out, nil
}
