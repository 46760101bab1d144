package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newEngine(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(mw)
	engine.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	engine.POST("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return engine
}

func TestRequestID(t *testing.T) {
	t.Run("generates an ID when none is supplied", func(t *testing.T) {
		engine := newEngine(RequestID())

		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("echoes a client-supplied ID", func(t *testing.T) {
		engine := newEngine(RequestID())

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
	})
}

func TestCORSWithConfig(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"https://sabores.pt"}

	t.Run("allows the configured origin", func(t *testing.T) {
		engine := newEngine(CORSWithConfig(cfg))

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "https://sabores.pt")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		assert.Equal(t, "https://sabores.pt", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("ignores unknown origins", func(t *testing.T) {
		engine := newEngine(CORSWithConfig(cfg))

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("answers preflight with 204", func(t *testing.T) {
		engine := newEngine(CORSWithConfig(cfg))

		req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
		req.Header.Set("Origin", "https://sabores.pt")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	})
}

func TestSecure(t *testing.T) {
	engine := newEngine(Secure())

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestBodyLimit(t *testing.T) {
	engine := newEngine(BodyLimit(16))

	t.Run("passes small bodies", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/ping", strings.NewReader("ok"))
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects oversized bodies", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/ping", strings.NewReader(strings.Repeat("x", 64)))
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestRateLimit(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	engine := newEngine(RateLimit(limiter))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "RATE_LIMITED")
}

func TestPublicCache(t *testing.T) {
	t.Run("sets cache headers on GET", func(t *testing.T) {
		engine := newEngine(PublicCache(60, 300))

		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Equal(t, "public, max-age=60, stale-while-revalidate=300", rec.Header().Get("Cache-Control"))
	})

	t.Run("leaves POST uncached", func(t *testing.T) {
		engine := newEngine(PublicCache(60, 300))

		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))

		assert.Empty(t, rec.Header().Get("Cache-Control"))
	})
}
