package memory

import (
	"context"

	"github.com/fanmerch/storefront/internal/core/domain"
)

type WishlistRepository struct {
	lists *Store[[]domain.Product]
}

func NewWishlistRepository() *WishlistRepository {
	return &WishlistRepository{
		lists: NewStore(func(items []domain.Product) []domain.Product {
			return append([]domain.Product{}, items...)
		}),
	}
}

func (r *WishlistRepository) Get(_ context.Context, userID string) ([]domain.Product, error) {
	items, ok := r.lists.Get(userID)
	if !ok {
		return nil, domain.ErrWishlistNotFound
	}
	return items, nil
}

func (r *WishlistRepository) Put(_ context.Context, userID string, items []domain.Product) error {
	r.lists.Put(userID, items)
	return nil
}
