package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest is the payload for creating a product
type CreateProductRequest struct {
	Name        string            `json:"name" binding:"required,max=200"`
	Description string            `json:"description"`
	Price       decimal.Decimal   `json:"price" binding:"required"`
	CategoryID  *uuid.UUID        `json:"category_id"`
	Tags        []string          `json:"tags"`
	Nutrition   *NutritionRequest `json:"nutrition"`
	ImageURL    string            `json:"image_url" binding:"omitempty,max=500"`
	SortOrder   int               `json:"sort_order"`
}

// UpdateProductRequest is the payload for updating a product
type UpdateProductRequest struct {
	Name        string            `json:"name" binding:"required,max=200"`
	Description string            `json:"description"`
	Price       decimal.Decimal   `json:"price" binding:"required"`
	CategoryID  *uuid.UUID        `json:"category_id"`
	Tags        []string          `json:"tags"`
	Nutrition   *NutritionRequest `json:"nutrition"`
	ImageURL    string            `json:"image_url" binding:"omitempty,max=500"`
	SortOrder   int               `json:"sort_order"`
	Visible     bool              `json:"visible"`
	Available   bool              `json:"available"`
}

// NutritionRequest carries per-serving nutrition facts
type NutritionRequest struct {
	Calories int `json:"calories" binding:"min=0"`
	Protein  int `json:"protein" binding:"min=0"`
	Carbs    int `json:"carbs" binding:"min=0"`
	Fat      int `json:"fat" binding:"min=0"`
}

// ProductResponse is the admin-facing product representation
type ProductResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       decimal.Decimal   `json:"price"`
	CategoryID  *uuid.UUID        `json:"category_id,omitempty"`
	Visible     bool              `json:"visible"`
	Available   bool              `json:"available"`
	Tags        []string          `json:"tags"`
	Nutrition   catalog.Nutrition `json:"nutrition"`
	ImageURL    string            `json:"image_url,omitempty"`
	SortOrder   int               `json:"sort_order"`
	Options     []OptionResponse  `json:"options,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ToProductResponse converts a product aggregate to its response shape
func ToProductResponse(p *catalog.Product) ProductResponse {
	tags := make([]string, len(p.Tags))
	for i, tag := range p.Tags {
		tags[i] = string(tag)
	}

	options := make([]OptionResponse, len(p.Options))
	for i := range p.Options {
		options[i] = ToOptionResponse(&p.Options[i])
	}

	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CategoryID:  p.CategoryID,
		Visible:     p.Visible,
		Available:   p.Available,
		Tags:        tags,
		Nutrition:   p.Nutrition,
		ImageURL:    p.ImageURL,
		SortOrder:   p.SortOrder,
		Options:     options,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// CategoryRequest is the payload for creating or updating a category
type CategoryRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	SortOrder int    `json:"sort_order"`
	Active    bool   `json:"active"`
}

// CategoryResponse is the admin-facing category representation
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToCategoryResponse converts a category to its response shape
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Active:    c.Active,
		SortOrder: c.SortOrder,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ChoiceRequest is a selectable entry within an option group
type ChoiceRequest struct {
	Name       string          `json:"name" binding:"required,max=100"`
	PriceDelta decimal.Decimal `json:"price_delta"`
}

// OptionRequest is the payload for creating or updating an option group
type OptionRequest struct {
	Name      string          `json:"name" binding:"required,max=100"`
	MinSelect int             `json:"min_select" binding:"min=0"`
	MaxSelect int             `json:"max_select" binding:"min=1"`
	Choices   []ChoiceRequest `json:"choices" binding:"required,min=1"`
	SortOrder int             `json:"sort_order"`
}

// Choices converts the request choices into domain choices
func (r OptionRequest) DomainChoices() catalog.Choices {
	choices := make(catalog.Choices, len(r.Choices))
	for i, c := range r.Choices {
		choices[i] = catalog.Choice{Name: c.Name, PriceDelta: c.PriceDelta}
	}
	return choices
}

// OptionResponse is the option group representation
type OptionResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	MinSelect int             `json:"min_select"`
	MaxSelect int             `json:"max_select"`
	Choices   catalog.Choices `json:"choices"`
	SortOrder int             `json:"sort_order"`
}

// ToOptionResponse converts an option group to its response shape
func ToOptionResponse(o *catalog.ProductOption) OptionResponse {
	return OptionResponse{
		ID:        o.ID,
		ProductID: o.ProductID,
		Name:      o.Name,
		MinSelect: o.MinSelect,
		MaxSelect: o.MaxSelect,
		Choices:   o.Choices,
		SortOrder: o.SortOrder,
	}
}
