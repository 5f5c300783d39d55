package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/fanmerch/storefront/internal/core/domain"
	"github.com/fanmerch/storefront/internal/core/ports"
)

// WishlistService keeps per-user wishlists. Every mutation runs under the
// user's lock so the duplicate check and the append are one step.
type WishlistService struct {
	repo    ports.WishlistRepository
	catalog ports.Catalog
	locker  ports.Locker
	log     zerolog.Logger
}

func NewWishlistService(repo ports.WishlistRepository, catalog ports.Catalog, locker ports.Locker, log zerolog.Logger) *WishlistService {
	return &WishlistService{repo: repo, catalog: catalog, locker: locker, log: log}
}

// Get returns the user's products in insertion order, or an empty slice.
func (s *WishlistService) Get(ctx context.Context, userID string) ([]domain.Product, error) {
	items, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrWishlistNotFound) {
			return []domain.Product{}, nil
		}
		return nil, err
	}
	return items, nil
}

func (s *WishlistService) Add(ctx context.Context, userID, productID string) (domain.Product, error) {
	if productID == "" {
		return domain.Product{}, domain.ErrProductIDRequired
	}

	var added domain.Product
	err := withLock(ctx, s.locker, userLockKey(userID), func() error {
		items, err := s.repo.Get(ctx, userID)
		if err != nil && !errors.Is(err, domain.ErrWishlistNotFound) {
			return err
		}
		if indexOf(items, productID) >= 0 {
			return domain.ErrProductInWishlist
		}

		added, err = s.catalog.Resolve(ctx, productID)
		if err != nil {
			return fmt.Errorf("resolve product %s: %w", productID, err)
		}
		return s.repo.Put(ctx, userID, append(items, added))
	})
	if err != nil {
		return domain.Product{}, err
	}

	s.log.Debug().Str("user_id", userID).Str("product_id", productID).Msg("wishlist add")
	return added, nil
}

func (s *WishlistService) Remove(ctx context.Context, userID, productID string) error {
	_, err := s.take(ctx, userID, productID)
	return err
}

// MoveToCart removes the product and returns it so the caller can put it in
// its own cart.
func (s *WishlistService) MoveToCart(ctx context.Context, userID, productID string) (domain.Product, error) {
	return s.take(ctx, userID, productID)
}

func (s *WishlistService) take(ctx context.Context, userID, productID string) (domain.Product, error) {
	var removed domain.Product
	err := withLock(ctx, s.locker, userLockKey(userID), func() error {
		items, err := s.repo.Get(ctx, userID)
		if err != nil {
			return err
		}
		idx := indexOf(items, productID)
		if idx < 0 {
			return domain.ErrProductNotInWishlist
		}
		removed = items[idx]
		rest := append(items[:idx:idx], items[idx+1:]...)
		return s.repo.Put(ctx, userID, rest)
	})
	if err != nil {
		return domain.Product{}, err
	}
	return removed, nil
}

func indexOf(items []domain.Product, productID string) int {
	for i, p := range items {
		if p.ID == productID {
			return i
		}
	}
	return -1
}
