package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/sabores/backend/internal/application/catalog"
	"github.com/sabores/backend/internal/domain/identity"
	"github.com/sabores/backend/internal/interfaces/http/dto"
	"github.com/sabores/backend/internal/interfaces/http/middleware"
)

// CatalogHandler exposes the admin catalog: products, categories and
// option groups.
type CatalogHandler struct {
	BaseHandler
	products   *catalogapp.ProductService
	categories *catalogapp.CategoryService
	options    *catalogapp.OptionService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(products *catalogapp.ProductService, categories *catalogapp.CategoryService, options *catalogapp.OptionService) *CatalogHandler {
	return &CatalogHandler{
		products:   products,
		categories: categories,
		options:    options,
	}
}

// RegisterRoutes registers catalog routes on the admin group
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	guard := middleware.RequireAction(identity.ActionCatalogWrite)

	products := rg.Group("/products", guard)
	{
		products.GET("", h.ListProducts)
		products.POST("", h.CreateProduct)
		products.GET("/:id", h.GetProduct)
		products.PUT("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)
		products.PATCH("/:id/visibility", h.SetVisibility)
		products.PATCH("/:id/availability", h.SetAvailability)
		products.GET("/:id/options", h.ListOptions)
		products.POST("/:id/options", h.CreateOption)
	}

	categories := rg.Group("/categories", guard)
	{
		categories.GET("", h.ListCategories)
		categories.POST("", h.CreateCategory)
		categories.PUT("/:id", h.UpdateCategory)
		categories.DELETE("/:id", h.DeleteCategory)
	}

	options := rg.Group("/options", guard)
	{
		options.PUT("/:id", h.UpdateOption)
		options.DELETE("/:id", h.DeleteOption)
	}
}

// ListProducts returns a paginated product list
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	result, err := h.products.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// CreateProduct creates a product
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.products.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// GetProduct returns one product
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	product, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// UpdateProduct replaces a product's fields
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.products.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// DeleteProduct removes a product
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

type visibilityRequest struct {
	Visible *bool `json:"visible" binding:"required"`
}

// SetVisibility shows or hides a product on the storefront
func (h *CatalogHandler) SetVisibility(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req visibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Field 'visible' is required")
		return
	}

	if err := h.products.SetVisibility(c.Request.Context(), id, *req.Visible); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

type availabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

// SetAvailability marks a product available or sold out
func (h *CatalogHandler) SetAvailability(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Field 'available' is required")
		return
	}

	if err := h.products.SetAvailability(c.Request.Context(), id, *req.Available); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListCategories returns all categories ordered for display
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	categories, err := h.categories.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// CreateCategory creates a category
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req catalogapp.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	category, err := h.categories.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// UpdateCategory updates a category
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req catalogapp.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	category, err := h.categories.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// DeleteCategory removes an empty category
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListOptions returns a product's option groups
func (h *CatalogHandler) ListOptions(c *gin.Context) {
	productID, ok := parseID(c)
	if !ok {
		return
	}

	options, err := h.options.ListByProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, options)
}

// CreateOption adds an option group to a product
func (h *CatalogHandler) CreateOption(c *gin.Context) {
	productID, ok := parseID(c)
	if !ok {
		return
	}

	var req catalogapp.OptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	option, err := h.options.Create(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, option)
}

// UpdateOption updates an option group
func (h *CatalogHandler) UpdateOption(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req catalogapp.OptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	option, err := h.options.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, option)
}

// DeleteOption removes an option group
func (h *CatalogHandler) DeleteOption(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.options.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
