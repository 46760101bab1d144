package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar registers a handler's routes on a group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RegistrarFunc adapts a plain function to RouteRegistrar
type RegistrarFunc func(rg *gin.RouterGroup)

// RegisterRoutes implements RouteRegistrar
func (f RegistrarFunc) RegisterRoutes(rg *gin.RouterGroup) {
	f(rg)
}

// Router wires the public storefront surface and the authenticated admin
// surface under one versioned API prefix. The two groups carry different
// middleware chains: the public side is rate limited and CDN-cacheable,
// the admin side sits behind the session cookie.
type Router struct {
	engine     *gin.Engine
	apiVersion string

	publicMiddleware []gin.HandlerFunc
	adminMiddleware  []gin.HandlerFunc
	public           []RouteRegistrar
	admin            []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// UsePublic adds middleware to the public group
func (r *Router) UsePublic(middleware ...gin.HandlerFunc) *Router {
	r.publicMiddleware = append(r.publicMiddleware, middleware...)
	return r
}

// UseAdmin adds middleware to the admin group
func (r *Router) UseAdmin(middleware ...gin.HandlerFunc) *Router {
	r.adminMiddleware = append(r.adminMiddleware, middleware...)
	return r
}

// Public registers handlers on the public group
func (r *Router) Public(registrars ...RouteRegistrar) *Router {
	r.public = append(r.public, registrars...)
	return r
}

// Admin registers handlers on the admin group
func (r *Router) Admin(registrars ...RouteRegistrar) *Router {
	r.admin = append(r.admin, registrars...)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)

	public := api.Group("")
	public.Use(r.publicMiddleware...)
	for _, registrar := range r.public {
		registrar.RegisterRoutes(public)
	}

	admin := api.Group("/admin")
	admin.Use(r.adminMiddleware...)
	for _, registrar := range r.admin {
		registrar.RegisterRoutes(admin)
	}
}
