package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fanmerch/storefront/internal/core/domain"
)

// Context keys set by Auth.
const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
)

// TokenVerifier is the part of the auth service the middleware needs.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (domain.TokenClaims, error)
}

// Auth validates the bearer token and injects the user id and email into the
// context. A missing token is a 401, a bad or expired one a 403.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrMissingToken.Message)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrMissingToken.Message)
			}

			claims, err := verifier.VerifyToken(c.Request().Context(), parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, domain.ErrInvalidToken.Message)
			}

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxEmail, claims.Email)

			return next(c)
		}
	}
}
