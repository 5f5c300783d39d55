package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fanmerch/storefront/internal/core/domain"
)

// AdminOnly lets through requests whose token email is on the allow-list.
// It must run after Auth.
func AdminOnly(emails ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if e != "" {
			allowed[e] = struct{}{}
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email, _ := c.Get(CtxEmail).(string)
			if _, ok := allowed[email]; !ok || email == "" {
				return echo.NewHTTPError(http.StatusForbidden, domain.ErrNotAdmin.Message)
			}
			return next(c)
		}
	}
}
