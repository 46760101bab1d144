package handler

import (
	"github.com/gin-gonic/gin"
	webhookapp "github.com/sabores/backend/internal/application/webhook"
	"github.com/sabores/backend/internal/domain/identity"
	"github.com/sabores/backend/internal/interfaces/http/dto"
	"github.com/sabores/backend/internal/interfaces/http/middleware"
)

// WebhookHandler manages outbound webhook endpoints
type WebhookHandler struct {
	BaseHandler
	webhooks *webhookapp.Service
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(webhooks *webhookapp.Service) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks}
}

// RegisterRoutes registers webhook routes on the admin group
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	webhooks := rg.Group("/webhooks", middleware.RequireAction(identity.ActionWebhooksWrite))
	{
		webhooks.GET("", h.List)
		webhooks.POST("", h.Create)
		webhooks.GET("/:id", h.GetByID)
		webhooks.PUT("/:id", h.Update)
		webhooks.DELETE("/:id", h.Delete)
		webhooks.GET("/:id/logs", h.Logs)
		webhooks.POST("/:id/test", h.SendTest)
	}
}

// List returns all configured webhooks
func (h *WebhookHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	webhooks, err := h.webhooks.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, webhooks)
}

// Create registers a webhook endpoint
func (h *WebhookHandler) Create(c *gin.Context) {
	var req webhookapp.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	webhook, err := h.webhooks.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, webhook)
}

// GetByID returns one webhook; the signing secret is never included
func (h *WebhookHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	webhook, err := h.webhooks.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, webhook)
}

// Update changes a webhook's URL, events or secret
func (h *WebhookHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req webhookapp.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	webhook, err := h.webhooks.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, webhook)
}

// Delete removes a webhook
func (h *WebhookHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.webhooks.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Logs returns a webhook's delivery history
func (h *WebhookHandler) Logs(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	logs, err := h.webhooks.Logs(c.Request.Context(), id, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, logs)
}

// SendTest delivers a synthetic event to the endpoint
func (h *WebhookHandler) SendTest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.webhooks.SendTest(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
