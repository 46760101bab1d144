package handler

import (
	"github.com/gin-gonic/gin"
	deliveryapp "github.com/sabores/backend/internal/application/delivery"
	"github.com/sabores/backend/internal/domain/identity"
	"github.com/sabores/backend/internal/interfaces/http/dto"
	"github.com/sabores/backend/internal/interfaces/http/middleware"
)

// AreaHandler manages delivery areas
type AreaHandler struct {
	BaseHandler
	areas *deliveryapp.AreaService
}

// NewAreaHandler creates a new AreaHandler
func NewAreaHandler(areas *deliveryapp.AreaService) *AreaHandler {
	return &AreaHandler{areas: areas}
}

// RegisterRoutes registers delivery area routes on the admin group
func (h *AreaHandler) RegisterRoutes(rg *gin.RouterGroup) {
	areas := rg.Group("/delivery-areas", middleware.RequireAction(identity.ActionAreasWrite))
	{
		areas.GET("", h.List)
		areas.POST("", h.Create)
		areas.GET("/:id", h.GetByID)
		areas.PUT("/:id", h.Update)
		areas.DELETE("/:id", h.Delete)
	}
}

// List returns all delivery areas in display order
func (h *AreaHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	areas, err := h.areas.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, areas)
}

// Create creates a delivery area
func (h *AreaHandler) Create(c *gin.Context) {
	var req deliveryapp.AreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	area, err := h.areas.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, area)
}

// GetByID returns one delivery area
func (h *AreaHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	area, err := h.areas.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, area)
}

// Update replaces a delivery area's polygon and fees
func (h *AreaHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req deliveryapp.AreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	area, err := h.areas.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, area)
}

// Delete removes a delivery area
func (h *AreaHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.areas.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
