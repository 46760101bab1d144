package handler

import (
	"github.com/gin-gonic/gin"
	marketingapp "github.com/sabores/backend/internal/application/marketing"
	"github.com/sabores/backend/internal/domain/identity"
	"github.com/sabores/backend/internal/domain/marketing"
	"github.com/sabores/backend/internal/interfaces/http/dto"
	"github.com/sabores/backend/internal/interfaces/http/middleware"
)

// AutomationHandler manages marketing automations. The channel is a path
// segment: /automations/email/... and /automations/sms/...
type AutomationHandler struct {
	BaseHandler
	automations *marketingapp.AutomationService
}

// NewAutomationHandler creates a new AutomationHandler
func NewAutomationHandler(automations *marketingapp.AutomationService) *AutomationHandler {
	return &AutomationHandler{automations: automations}
}

// RegisterRoutes registers automation routes on the admin group
func (h *AutomationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	automations := rg.Group("/automations/:channel", middleware.RequireAction(identity.ActionMarketingWrite))
	{
		automations.GET("", h.List)
		automations.POST("", h.Create)
		automations.GET("/:id", h.GetByID)
		automations.PUT("/:id", h.Update)
		automations.DELETE("/:id", h.Delete)
		automations.GET("/:id/runs", h.RunLogs)
	}
}

func channelParam(c *gin.Context) (marketing.Channel, bool) {
	switch c.Param("channel") {
	case "email":
		return marketing.ChannelEmail, true
	case "sms":
		return marketing.ChannelSMS, true
	}
	return "", false
}

// List returns all automations on a channel
func (h *AutomationHandler) List(c *gin.Context) {
	channel, ok := channelParam(c)
	if !ok {
		h.BadRequest(c, "Channel must be 'email' or 'sms'")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	automations, err := h.automations.List(c.Request.Context(), channel, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, automations)
}

// Create creates an automation
func (h *AutomationHandler) Create(c *gin.Context) {
	channel, ok := channelParam(c)
	if !ok {
		h.BadRequest(c, "Channel must be 'email' or 'sms'")
		return
	}

	var req marketingapp.AutomationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	automation, err := h.automations.Create(c.Request.Context(), channel, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, automation)
}

// GetByID returns one automation with its flow graph
func (h *AutomationHandler) GetByID(c *gin.Context) {
	channel, ok := channelParam(c)
	if !ok {
		h.BadRequest(c, "Channel must be 'email' or 'sms'")
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	automation, err := h.automations.GetByID(c.Request.Context(), channel, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, automation)
}

// Update replaces an automation's flow
func (h *AutomationHandler) Update(c *gin.Context) {
	channel, ok := channelParam(c)
	if !ok {
		h.BadRequest(c, "Channel must be 'email' or 'sms'")
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req marketingapp.AutomationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	automation, err := h.automations.Update(c.Request.Context(), channel, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, automation)
}

// Delete removes an automation
func (h *AutomationHandler) Delete(c *gin.Context) {
	channel, ok := channelParam(c)
	if !ok {
		h.BadRequest(c, "Channel must be 'email' or 'sms'")
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.automations.Delete(c.Request.Context(), channel, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RunLogs returns an automation's run history
func (h *AutomationHandler) RunLogs(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	logs, err := h.automations.RunLogs(c.Request.Context(), id, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, logs)
}
