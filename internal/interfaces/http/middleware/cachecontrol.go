package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// PublicCache sets Cache-Control on successful GET responses so the CDN
// and browsers can serve the storefront catalog without hitting the
// server on every navigation. Mutating methods are never cached.
func PublicCache(maxAge, staleWhileRevalidate int) gin.HandlerFunc {
	value := fmt.Sprintf("public, max-age=%d", maxAge)
	if staleWhileRevalidate > 0 {
		value = fmt.Sprintf("%s, stale-while-revalidate=%d", value, staleWhileRevalidate)
	}

	return func(c *gin.Context) {
		// Headers must be in place before the handler writes the body.
		if c.Request.Method == http.MethodGet {
			c.Writer.Header().Set("Cache-Control", value)
		}
		c.Next()
	}
}

// NoStore marks responses as uncacheable. Applied to everything under
// the admin surface and to order tracking, which carries per-customer
// data.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Cache-Control", "no-store")
		c.Next()
	}
}
