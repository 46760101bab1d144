package handler

import (
	"github.com/gin-gonic/gin"
	marketingapp "github.com/sabores/backend/internal/application/marketing"
	storefrontapp "github.com/sabores/backend/internal/application/storefront"
)

// StorefrontHandler exposes the public shop surface. Everything here is
// reachable without a session; responses never include internals.
type StorefrontHandler struct {
	BaseHandler
	storefront *storefrontapp.Service
	marketing  *marketingapp.AutomationService
}

// NewStorefrontHandler creates a new StorefrontHandler
func NewStorefrontHandler(storefront *storefrontapp.Service, marketing *marketingapp.AutomationService) *StorefrontHandler {
	return &StorefrontHandler{
		storefront: storefront,
		marketing:  marketing,
	}
}

// RegisterRoutes registers the public storefront routes
func (h *StorefrontHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/catalog", h.Catalog)
	rg.GET("/settings", h.Settings)
	rg.POST("/cart/abandoned", h.ReportAbandonedCart)
}

// Catalog returns the public menu grouped by category
func (h *StorefrontHandler) Catalog(c *gin.Context) {
	catalog, err := h.storefront.Catalog(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, catalog)
}

// Settings returns the public shop settings projection
func (h *StorefrontHandler) Settings(c *gin.Context) {
	settings, err := h.storefront.Settings(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

// ReportAbandonedCart records a cart the storefront gave up on
func (h *StorefrontHandler) ReportAbandonedCart(c *gin.Context) {
	var req marketingapp.AbandonedCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.marketing.ReportAbandonedCart(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
