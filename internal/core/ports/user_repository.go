package ports

import (
	"context"

	"github.com/fanmerch/storefront/internal/core/domain"
)

// UserRepository persists user records. Implementations return
// domain.ErrUserExists on a duplicate email and domain.ErrUserNotFound when a
// lookup misses.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}
