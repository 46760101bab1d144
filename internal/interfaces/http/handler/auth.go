package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	identityapp "github.com/sabores/backend/internal/application/identity"
	"github.com/sabores/backend/internal/infrastructure/config"
	"github.com/sabores/backend/internal/interfaces/http/middleware"
)

// AuthHandler manages the admin session lifecycle. The token lives in an
// HTTP-only cookie and is never exposed to page scripts.
type AuthHandler struct {
	BaseHandler
	auth   *identityapp.AuthService
	cookie config.CookieConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *identityapp.AuthService, cookie config.CookieConfig) *AuthHandler {
	return &AuthHandler{auth: auth, cookie: cookie}
}

// RegisterPublicRoutes registers the unauthenticated login route
func (h *AuthHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
}

// RegisterRoutes registers session routes that require authentication
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/logout", h.Logout)
	rg.GET("/auth/me", h.Me)
	rg.POST("/auth/change-password", h.ChangePassword)
}

// Login authenticates and sets the session cookie
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Email and password are required")
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setSessionCookie(c, token.Token, int(time.Until(token.ExpiresAt).Seconds()))
	h.Success(c, user)
}

// Logout revokes the session and clears the cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.GetSessionClaims(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.auth.Logout(c.Request.Context(), claims); err != nil {
		h.HandleError(c, err)
		return
	}

	h.setSessionCookie(c, "", -1)
	h.NoContent(c)
}

// Me returns the authenticated account
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.GetSessionClaims(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	h.Success(c, gin.H{
		"user_id":       claims.UserID,
		"email":         claims.Email,
		"role":          claims.Role,
		"manager_level": claims.ManagerLevel,
	})
}

// ChangePassword updates the account password and ends the session
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	claims, ok := middleware.GetSessionClaims(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req identityapp.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), claims, req); err != nil {
		h.HandleError(c, err)
		return
	}

	// The old session is revoked; force a fresh login.
	h.setSessionCookie(c, "", -1)
	h.NoContent(c)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	switch h.cookie.SameSite {
	case "strict":
		c.SetSameSite(http.SameSiteStrictMode)
	case "none":
		c.SetSameSite(http.SameSiteNoneMode)
	default:
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(h.cookie.Name, value, maxAge, h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
}
