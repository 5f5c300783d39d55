package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fanmerch/storefront/internal/core/ports"
)

// AdminHandler exposes read-only listings for operators.
type AdminHandler struct {
	auth          ports.AuthService
	subscriptions ports.SubscriptionService
}

func NewAdminHandler(auth ports.AuthService, subscriptions ports.SubscriptionService) *AdminHandler {
	return &AdminHandler{auth: auth, subscriptions: subscriptions}
}

// Users lists all accounts, redacted.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      403  {object}  ErrorResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) Users(c echo.Context) error {
	users, err := h.auth.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Subscriptions lists all newsletter records.
//
// @Summary      List subscriptions
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Subscription
// @Failure      403  {object}  ErrorResponse
// @Router       /api/admin/subscriptions [get]
func (h *AdminHandler) Subscriptions(c echo.Context) error {
	subs, err := h.subscriptions.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, subs)
}
