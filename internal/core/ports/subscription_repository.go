package ports

import (
	"context"

	"github.com/fanmerch/storefront/internal/core/domain"
)

// SubscriptionRepository stores newsletter subscriptions, one per user.
type SubscriptionRepository interface {
	// FindByUser returns domain.ErrNotFound (wrapped) when the user has no record.
	FindByUser(ctx context.Context, userID string) (*domain.Subscription, error)
	Save(ctx context.Context, sub *domain.Subscription) error
	List(ctx context.Context) ([]*domain.Subscription, error)
}
