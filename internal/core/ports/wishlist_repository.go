package ports

import (
	"context"

	"github.com/fanmerch/storefront/internal/core/domain"
)

// WishlistRepository stores each user's wishlist as one value keyed by user id.
// Get returns domain.ErrWishlistNotFound when the user has never saved anything;
// a wishlist emptied by removals stays stored as an empty list.
// Callers serialize read-modify-write cycles through a Locker.
type WishlistRepository interface {
	Get(ctx context.Context, userID string) ([]domain.Product, error)
	Put(ctx context.Context, userID string, items []domain.Product) error
}
