package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fanmerch/storefront/internal/core/domain"
	"github.com/fanmerch/storefront/internal/core/ports"
)

// SubscriptionService manages newsletter subscriptions. Subscribe is an
// upsert by user: an earlier record is reactivated rather than duplicated.
type SubscriptionService struct {
	subs   ports.SubscriptionRepository
	users  ports.UserRepository
	locker ports.Locker
	log    zerolog.Logger
	now    func() time.Time
}

func NewSubscriptionService(subs ports.SubscriptionRepository, users ports.UserRepository, locker ports.Locker, log zerolog.Logger) *SubscriptionService {
	return &SubscriptionService{
		subs:   subs,
		users:  users,
		locker: locker,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *SubscriptionService) Subscribe(ctx context.Context, in ports.SubscribeInput) (*domain.Subscription, error) {
	var sub *domain.Subscription
	err := withLock(ctx, s.locker, userLockKey(in.UserID), func() error {
		user, err := s.users.FindByID(ctx, in.UserID)
		if err != nil {
			return err
		}

		sub, err = s.subs.FindByUser(ctx, in.UserID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			sub = &domain.Subscription{ID: uuid.NewString(), UserID: in.UserID}
		case err != nil:
			return err
		}

		sub.Email = in.Email
		if sub.Email == "" {
			sub.Email = user.Email
		}
		sub.Preferences = in.Preferences
		if sub.Preferences == nil {
			sub.Preferences = map[string]bool{}
		}
		sub.SubscribedAt = s.now()
		sub.IsActive = true

		return s.flagThen(ctx, user, true, func() error {
			return s.subs.Save(ctx, sub)
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", in.UserID).Msg("newsletter subscribed")
	return sub, nil
}

func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID string) error {
	return withLock(ctx, s.locker, userLockKey(userID), func() error {
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return err
		}

		return s.flagThen(ctx, user, false, func() error {
			sub, err := s.subs.FindByUser(ctx, userID)
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			sub.IsActive = false
			return s.subs.Save(ctx, sub)
		})
	})
}

// flagThen sets the user's subscription flag and then runs save. When save
// fails the flag is put back, so the flag never disagrees with the record.
func (s *SubscriptionService) flagThen(ctx context.Context, user *domain.User, subscribed bool, save func() error) error {
	previous := user.IsSubscribed
	user.IsSubscribed = subscribed
	if _, err := s.users.Update(ctx, user); err != nil {
		return err
	}

	if err := save(); err != nil {
		user.IsSubscribed = previous
		if _, rbErr := s.users.Update(context.WithoutCancel(ctx), user); rbErr != nil {
			s.log.Error().Err(rbErr).Str("user_id", user.ID).Msg("restore subscription flag")
		}
		return err
	}
	return nil
}

func (s *SubscriptionService) List(ctx context.Context) ([]*domain.Subscription, error) {
	return s.subs.List(ctx)
}
