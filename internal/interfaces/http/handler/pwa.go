package handler

import (
	"github.com/gin-gonic/gin"
	pwaapp "github.com/sabores/backend/internal/application/pwa"
	"github.com/sabores/backend/internal/domain/identity"
	"github.com/sabores/backend/internal/interfaces/http/middleware"
)

// PWAHandler records storefront app installs and serves their stats
type PWAHandler struct {
	BaseHandler
	installs *pwaapp.InstallService
}

// NewPWAHandler creates a new PWAHandler
func NewPWAHandler(installs *pwaapp.InstallService) *PWAHandler {
	return &PWAHandler{installs: installs}
}

// RegisterPublicRoutes registers the install report route
func (h *PWAHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/pwa/install", h.Record)
}

// RegisterRoutes registers the stats route on the admin group
func (h *PWAHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/pwa/stats", middleware.RequireAction(identity.ActionOrdersRead), h.Stats)
}

// Record stores one install event
func (h *PWAHandler) Record(c *gin.Context) {
	var req pwaapp.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Platform must be one of: android, ios, desktop")
		return
	}

	if err := h.installs.Record(c.Request.Context(), req, c.Request.UserAgent()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Stats returns install totals for the dashboard
func (h *PWAHandler) Stats(c *gin.Context) {
	stats, err := h.installs.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
