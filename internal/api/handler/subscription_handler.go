package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fanmerch/storefront/internal/api/metrics"
	"github.com/fanmerch/storefront/internal/core/domain"
	"github.com/fanmerch/storefront/internal/core/ports"
)

type SubscriptionHandler struct {
	service ports.SubscriptionService
	metrics *metrics.Metrics
}

func NewSubscriptionHandler(service ports.SubscriptionService, m *metrics.Metrics) *SubscriptionHandler {
	return &SubscriptionHandler{service: service, metrics: m}
}

type subscribeRequest struct {
	Email       string          `json:"email" validate:"omitempty,email"`
	Preferences map[string]bool `json:"preferences"`
}

type subscribeResponse struct {
	Message      string              `json:"message"`
	Subscription domain.Subscription `json:"subscription"`
}

// Subscribe signs the authenticated user up for the newsletter.
//
// @Summary      Subscribe to newsletter
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      subscribeRequest  false  "Optional email and preferences"
// @Success      200   {object}  subscribeResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/subscribe [post]
func (h *SubscriptionHandler) Subscribe(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req subscribeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sub, err := h.service.Subscribe(c.Request().Context(), ports.SubscribeInput{
		UserID:      userID,
		Email:       req.Email,
		Preferences: req.Preferences,
	})
	if err != nil {
		return err
	}
	h.metrics.SubscriptionChangesTotal.WithLabelValues("subscribe").Inc()

	return c.JSON(http.StatusOK, subscribeResponse{Message: "Successfully subscribed", Subscription: *sub})
}

// Unsubscribe turns the authenticated user's newsletter off.
//
// @Summary      Unsubscribe from newsletter
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/subscribe [delete]
func (h *SubscriptionHandler) Unsubscribe(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.Unsubscribe(c.Request().Context(), userID); err != nil {
		return err
	}
	h.metrics.SubscriptionChangesTotal.WithLabelValues("unsubscribe").Inc()

	return c.JSON(http.StatusOK, messageResponse{Message: "Successfully unsubscribed"})
}
