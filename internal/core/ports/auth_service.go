package ports

import (
	"context"

	"github.com/fanmerch/storefront/internal/core/domain"
)

// AuthResult is returned by signup and login: a fresh session token and the
// redacted user it was issued for.
type AuthResult struct {
	Token string
	User  domain.User
}

type AuthService interface {
	Signup(ctx context.Context, email, password, name string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	VerifyToken(ctx context.Context, token string) (domain.TokenClaims, error)
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}
