package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fanmerch/storefront/internal/core/domain"
	"github.com/fanmerch/storefront/internal/core/ports"
)

// AuthService implements the credential store: signup, login, token
// verification and profile maintenance.
type AuthService struct {
	users  ports.UserRepository
	hasher ports.CredentialHasher
	tokens ports.TokenCodec
	locker ports.Locker
	log    zerolog.Logger
	now    func() time.Time
}

func NewAuthService(
	users ports.UserRepository,
	hasher ports.CredentialHasher,
	tokens ports.TokenCodec,
	locker ports.Locker,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		locker: locker,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) Signup(ctx context.Context, email, password, name string) (*ports.AuthResult, error) {
	if email == "" || password == "" || name == "" {
		return nil, domain.ErrSignupFieldsRequired
	}

	var created *domain.User
	err := withLock(ctx, s.locker, signupLockKey(email), func() error {
		if _, err := s.users.FindByEmail(ctx, email); err == nil {
			return domain.ErrUserExists
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return err
		}

		hash, err := s.hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		created, err = s.users.Create(ctx, &domain.User{
			ID:           uuid.NewString(),
			Email:        email,
			PasswordHash: hash,
			Name:         name,
			CreatedAt:    s.now(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Msg("user signed up")
	return s.issue(created)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrLoginFieldsRequired
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *AuthService) VerifyToken(_ context.Context, token string) (domain.TokenClaims, error) {
	return s.tokens.Verify(token)
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	redacted := user.Redacted()
	return &redacted, nil
}

// UpdateProfile merges update into the stored record. The id, email and
// creation time are never touched because ProfileUpdate cannot express them.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	var updated *domain.User
	err := withLock(ctx, s.locker, userLockKey(userID), func() error {
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		update.Apply(user)
		updated, err = s.users.Update(ctx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	redacted := updated.Redacted()
	return &redacted, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Redacted())
	}
	return out, nil
}

func (s *AuthService) issue(user *domain.User) (*ports.AuthResult, error) {
	token, err := s.tokens.Sign(domain.TokenClaims{UserID: user.ID, Email: user.Email})
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &ports.AuthResult{Token: token, User: user.Redacted()}, nil
}
