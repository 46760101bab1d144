package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/sabores/backend/internal/application/identity"
	"github.com/sabores/backend/internal/domain/identity"
	"github.com/sabores/backend/internal/interfaces/http/dto"
	"github.com/sabores/backend/internal/interfaces/http/middleware"
)

// UserHandler manages back-office accounts
type UserHandler struct {
	BaseHandler
	users *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *identityapp.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterRoutes registers account routes on the admin group
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users", middleware.RequireAction(identity.ActionUsersWrite))
	{
		users.GET("", h.List)
		users.POST("", h.Create)
		users.GET("/:id", h.GetByID)
		users.PUT("/:id", h.Update)
		users.POST("/:id/reset-password", h.ResetPassword)
		users.DELETE("/:id", h.Delete)
	}
}

// List returns a paginated account list
func (h *UserHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	result, err := h.users.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Create creates an account
func (h *UserHandler) Create(c *gin.Context) {
	var req identityapp.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.users.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// GetByID returns one account
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Update changes an account's role, level or active flag
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req identityapp.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.users.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ResetPassword sets a new password for an account
func (h *UserHandler) ResetPassword(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req identityapp.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.users.ResetPassword(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete removes an account
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
