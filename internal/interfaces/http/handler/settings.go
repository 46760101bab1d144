package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	settingsapp "github.com/sabores/backend/internal/application/settings"
	"github.com/sabores/backend/internal/domain/identity"
	"github.com/sabores/backend/internal/interfaces/http/middleware"
)

// SettingsHandler manages the shop configuration
type SettingsHandler struct {
	BaseHandler
	settings *settingsapp.Service
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settings *settingsapp.Service) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// RegisterRoutes registers settings routes on the admin group
func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	guard := middleware.RequireAction(identity.ActionSettingsWrite)
	rg.GET("/settings", guard, h.Get)
	rg.PUT("/settings", guard, h.Update)
}

// RegisterPublicRoutes registers the scheduling slot listing
func (h *SettingsHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/scheduling/slots", h.Slots)
}

// Get returns the full shop configuration
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

// Update applies configuration changes
func (h *SettingsHandler) Update(c *gin.Context) {
	var req settingsapp.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	settings, err := h.settings.Update(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

// SlotsQuery controls the scheduling slot listing
type SlotsQuery struct {
	Days int `form:"days" binding:"omitempty,min=1,max=14"`
	Step int `form:"step" binding:"omitempty,min=5,max=120"` // minutes
}

// Slots returns the fulfillable scheduling slots for the coming days.
// Registered on the public group so the checkout page can offer them.
func (h *SettingsHandler) Slots(c *gin.Context) {
	var query SlotsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid slot parameters")
		return
	}
	if query.Days == 0 {
		query.Days = 7
	}
	if query.Step == 0 {
		query.Step = 30
	}

	slots, err := h.settings.AvailableSlots(c.Request.Context(), query.Days, time.Duration(query.Step)*time.Minute)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, slots)
}
