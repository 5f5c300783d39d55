package ports

import (
	"context"

	"github.com/fanmerch/storefront/internal/core/domain"
)

// SubscribeInput carries the optional overrides of a newsletter signup.
// An empty Email falls back to the account email.
type SubscribeInput struct {
	UserID      string
	Email       string
	Preferences map[string]bool
}

type SubscriptionService interface {
	Subscribe(ctx context.Context, in SubscribeInput) (*domain.Subscription, error)
	Unsubscribe(ctx context.Context, userID string) error
	List(ctx context.Context) ([]*domain.Subscription, error)
}
