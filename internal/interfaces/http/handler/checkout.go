package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	orderingapp "github.com/sabores/backend/internal/application/ordering"
)

// CheckoutHandler takes public orders and answers tracking queries
type CheckoutHandler struct {
	BaseHandler
	checkout *orderingapp.CheckoutService
	orders   *orderingapp.OrderService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkout *orderingapp.CheckoutService, orders *orderingapp.OrderService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, orders: orders}
}

// RegisterRoutes registers the public ordering routes
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/checkout", h.Checkout)
	rg.GET("/orders/track/:number", h.Track)
	rg.GET("/delivery/check", h.CheckDelivery)
}

// Checkout places an order. All pricing happens server-side from the
// catalog; client-supplied amounts are never trusted.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req orderingapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.checkout.Checkout(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Track returns the public view of an order by its number
func (h *CheckoutHandler) Track(c *gin.Context) {
	number, err := strconv.ParseInt(c.Param("number"), 10, 64)
	if err != nil || number <= 0 {
		h.BadRequest(c, "Order number must be a positive integer")
		return
	}

	order, err := h.orders.Track(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// CheckDelivery resolves a coordinate against the delivery areas
func (h *CheckoutHandler) CheckDelivery(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		h.BadRequest(c, "Query parameters 'lat' and 'lng' are required")
		return
	}

	resolution, err := h.checkout.CheckDeliveryPoint(c.Request.Context(), lat, lng)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"area_name":     resolution.Area.Name,
		"delivery_fee":  resolution.Fee,
		"minimum_order": resolution.MinimumOrder,
	})
}
