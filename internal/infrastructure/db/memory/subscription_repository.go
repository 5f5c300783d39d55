package memory

import (
	"context"
	"maps"

	"github.com/fanmerch/storefront/internal/core/domain"
)

type SubscriptionRepository struct {
	byUser *Store[domain.Subscription]
}

func NewSubscriptionRepository() *SubscriptionRepository {
	return &SubscriptionRepository{
		byUser: NewStore(func(s domain.Subscription) domain.Subscription {
			s.Preferences = maps.Clone(s.Preferences)
			return s
		}),
	}
}

func (r *SubscriptionRepository) FindByUser(_ context.Context, userID string) (*domain.Subscription, error) {
	s, ok := r.byUser.Get(userID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (r *SubscriptionRepository) Save(_ context.Context, sub *domain.Subscription) error {
	r.byUser.Put(sub.UserID, *sub)
	return nil
}

func (r *SubscriptionRepository) List(_ context.Context) ([]*domain.Subscription, error) {
	values := r.byUser.Values()
	out := make([]*domain.Subscription, len(values))
	for i := range values {
		out[i] = &values[i]
	}
	return out, nil
}
