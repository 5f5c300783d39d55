package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fanmerch/storefront/internal/api/middleware"
	"github.com/fanmerch/storefront/internal/core/domain"
)

// ctxUserID extracts the user id injected by the Auth middleware. An empty id
// means the middleware did not run, which is a routing mistake surfaced as 401.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get(middleware.CtxUserID).(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, domain.ErrMissingToken.Message)
	}
	return userID, nil
}

// bindAndValidate decodes the body into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}

// messageResponse is the body of endpoints that only acknowledge.
type messageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the envelope of every failed request: {"error": "<message>"}.
type ErrorResponse struct {
	Error string `json:"error"`
}
