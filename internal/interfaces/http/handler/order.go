package handler

import (
	"github.com/gin-gonic/gin"
	orderingapp "github.com/sabores/backend/internal/application/ordering"
	"github.com/sabores/backend/internal/domain/identity"
	"github.com/sabores/backend/internal/interfaces/http/middleware"
)

// OrderHandler exposes the admin order board
type OrderHandler struct {
	BaseHandler
	orders *orderingapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders *orderingapp.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// RegisterRoutes registers order routes on the admin group
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	read := middleware.RequireAction(identity.ActionOrdersRead)
	write := middleware.RequireAction(identity.ActionOrdersWrite)

	orders := rg.Group("/orders")
	{
		orders.GET("", read, h.List)
		orders.GET("/:id", read, h.GetByID)
		orders.PATCH("/:id/status", write, h.UpdateStatus)
		orders.POST("/:id/cancel", write, h.Cancel)
		orders.DELETE("/:id", middleware.RequireAction(identity.ActionOrdersDelete), h.Delete)
	}
}

// List returns orders filtered by status or customer email
func (h *OrderHandler) List(c *gin.Context) {
	var filter orderingapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	result, err := h.orders.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetByID returns one order with its items
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	order, err := h.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// UpdateStatus advances an order through its lifecycle
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req orderingapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Cancel cancels an order with a reason
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req orderingapp.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orders.Cancel(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete permanently removes an order and its items
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.orders.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
