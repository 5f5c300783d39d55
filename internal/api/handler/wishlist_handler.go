package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fanmerch/storefront/internal/api/metrics"
	"github.com/fanmerch/storefront/internal/core/domain"
	"github.com/fanmerch/storefront/internal/core/ports"
)

type WishlistHandler struct {
	service ports.WishlistService
	metrics *metrics.Metrics
}

func NewWishlistHandler(service ports.WishlistService, m *metrics.Metrics) *WishlistHandler {
	return &WishlistHandler{service: service, metrics: m}
}

type productRequest struct {
	ProductID string `json:"productId"`
}

type moveToCartResponse struct {
	Message string         `json:"message"`
	Product domain.Product `json:"product"`
}

// List returns the authenticated user's wishlist in insertion order.
//
// @Summary      Get wishlist
// @Tags         wishlist
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Product
// @Failure      401  {object}  ErrorResponse
// @Router       /api/wishlist [get]
func (h *WishlistHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	items, err := h.service.Get(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Add saves a product to the wishlist.
//
// @Summary      Add to wishlist
// @Tags         wishlist
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productRequest  true  "Product id"
// @Success      200   {object}  domain.Product
// @Failure      400   {object}  ErrorResponse
// @Router       /api/wishlist [post]
func (h *WishlistHandler) Add(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	product, err := h.service.Add(c.Request().Context(), userID, req.ProductID)
	h.metrics.WishlistOperationsTotal.WithLabelValues("add", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// Remove deletes a product from the wishlist.
//
// @Summary      Remove from wishlist
// @Tags         wishlist
// @Produce      json
// @Security     BearerAuth
// @Param        productId  path      string  true  "Product id"
// @Success      200        {object}  messageResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /api/wishlist/{productId} [delete]
func (h *WishlistHandler) Remove(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	err = h.service.Remove(c.Request().Context(), userID, c.Param("productId"))
	h.metrics.WishlistOperationsTotal.WithLabelValues("remove", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Product removed from wishlist"})
}

// MoveToCart removes a product from the wishlist and returns it for the
// client to put in its cart.
//
// @Summary      Move wishlist item to cart
// @Tags         wishlist
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productRequest  true  "Product id"
// @Success      200   {object}  moveToCartResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/wishlist/move-to-cart [post]
func (h *WishlistHandler) MoveToCart(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	product, err := h.service.MoveToCart(c.Request().Context(), userID, req.ProductID)
	h.metrics.WishlistOperationsTotal.WithLabelValues("move_to_cart", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, moveToCartResponse{Message: "Product moved to cart", Product: product})
}
