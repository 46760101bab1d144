package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sabores/backend/internal/domain/identity"
	"github.com/sabores/backend/internal/infrastructure/auth"
	applog "github.com/sabores/backend/internal/infrastructure/logger"
	"github.com/sabores/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Session context keys
const (
	SessionClaimsKey = "session_claims"
	SessionUserIDKey = "session_user_id"
)

// SessionAuth validates the session cookie and stores the claims in the
// request context. The token never travels in a header; the admin SPA
// relies on the HTTP-only cookie alone.
func SessionAuth(tokens *auth.JWTService, revoker auth.SessionRevoker, cookieName string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(cookieName)
		if err != nil || tokenString == "" {
			abortUnauthorized(c, "Authentication required")
			return
		}

		claims, err := tokens.ValidateSessionToken(tokenString)
		if err != nil {
			logger.Debug("session token rejected", zap.Error(err))
			abortUnauthorized(c, "Session is invalid or expired")
			return
		}

		if revoker != nil && claims.ID != "" {
			revoked, err := revoker.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				logger.Error("session revocation check failed", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					dto.NewErrorResponse(dto.ErrCodeInternal, "Could not verify session", c.GetString(RequestIDKey)))
				return
			}
			if revoked {
				abortUnauthorized(c, "Session has been revoked")
				return
			}
		}

		c.Set(SessionClaimsKey, claims)
		c.Set(SessionUserIDKey, claims.UserID)

		// Stamp the user onto the request-scoped logger so service logs
		// under this request carry it too.
		ctx, _ := applog.WithUserID(c.Request.Context(), applog.FromContext(c.Request.Context()), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetSessionClaims returns the validated session claims, if any
func GetSessionClaims(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(SessionClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}

// RequireAction authorizes the session against a back-office action.
// Must run after SessionAuth.
func RequireAction(action identity.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetSessionClaims(c)
		if !ok {
			abortUnauthorized(c, "Authentication required")
			return
		}

		if !identity.Authorize(claims.Role, claims.ManagerLevel, action) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Your account cannot perform this action", c.GetString(RequestIDKey)))
			return
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, message, c.GetString(RequestIDKey)))
}
