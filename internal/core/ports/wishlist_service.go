package ports

import (
	"context"

	"github.com/fanmerch/storefront/internal/core/domain"
)

// WishlistService manages per-user saved products. It knows nothing about
// carts: MoveToCart only hands the removed product back to the caller.
type WishlistService interface {
	Get(ctx context.Context, userID string) ([]domain.Product, error)
	Add(ctx context.Context, userID, productID string) (domain.Product, error)
	Remove(ctx context.Context, userID, productID string) error
	MoveToCart(ctx context.Context, userID, productID string) (domain.Product, error)
}
