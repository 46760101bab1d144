package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DietaryTag marks a dietary property of a product
type DietaryTag string

const (
	DietaryVegetarian  DietaryTag = "vegetarian"
	DietaryVegan       DietaryTag = "vegan"
	DietaryGlutenFree  DietaryTag = "gluten_free"
	DietaryLactoseFree DietaryTag = "lactose_free"
	DietarySpicy       DietaryTag = "spicy"
)

// IsValid returns true for a known dietary tag
func (t DietaryTag) IsValid() bool {
	switch t {
	case DietaryVegetarian, DietaryVegan, DietaryGlutenFree, DietaryLactoseFree, DietarySpicy:
		return true
	}
	return false
}

// DietaryTags is the JSON-persisted set of dietary tags
type DietaryTags []DietaryTag

// Value implements driver.Valuer
func (t DietaryTags) Value() (driver.Value, error) {
	return json.Marshal(t)
}

// Scan implements sql.Scanner
func (t *DietaryTags) Scan(value interface{}) error {
	return scanJSONColumn(value, t, "dietary tags")
}

// Nutrition holds the per-serving nutrition facts of a product
type Nutrition struct {
	Calories int `json:"calories"` // kcal
	Protein  int `json:"protein"`  // grams
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
}

// Value implements driver.Valuer
func (n Nutrition) Value() (driver.Value, error) {
	return json.Marshal(n)
}

// Scan implements sql.Scanner
func (n *Nutrition) Scan(value interface{}) error {
	return scanJSONColumn(value, n, "nutrition")
}

// Product is a menu item. Visible controls whether the storefront lists it;
// Available controls whether it can currently be ordered (sold out).
type Product struct {
	shared.BaseAggregateRoot
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	Visible     bool            `gorm:"not null;default:true"`
	Available   bool            `gorm:"not null;default:true"`
	Tags        DietaryTags     `gorm:"type:jsonb"`
	Nutrition   Nutrition       `gorm:"type:jsonb"`
	ImageURL    string          `gorm:"type:varchar(500)"`
	SortOrder   int             `gorm:"not null;default:0"`
	Options     []ProductOption `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name string, price decimal.Decimal) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Price:             price,
		Visible:           true,
		Available:         true,
		Tags:              DietaryTags{},
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetPrice changes the product price
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	p.Price = price
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetCategory assigns the product to a category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetTags replaces the dietary tags
func (p *Product) SetTags(tags DietaryTags) error {
	for _, tag := range tags {
		if !tag.IsValid() {
			return shared.NewDomainError("INVALID_TAG", fmt.Sprintf("Unknown dietary tag %q", tag))
		}
	}
	p.Tags = tags
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetNutrition replaces the nutrition facts
func (p *Product) SetNutrition(n Nutrition) error {
	if n.Calories < 0 || n.Protein < 0 || n.Carbs < 0 || n.Fat < 0 {
		return shared.NewDomainError("INVALID_NUTRITION", "Nutrition values cannot be negative")
	}
	p.Nutrition = n
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetSortOrder sets the display order within the category
func (p *Product) SetSortOrder(order int) {
	p.SortOrder = order
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Show makes the product visible on the storefront
func (p *Product) Show() {
	p.Visible = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Hide removes the product from the storefront without deleting it
func (p *Product) Hide() {
	p.Visible = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// MarkAvailable marks the product as orderable
func (p *Product) MarkAvailable() {
	p.Available = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// MarkSoldOut keeps the product listed but not orderable
func (p *Product) MarkSoldOut() {
	p.Available = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Orderable reports whether the product can be added to an order
func (p *Product) Orderable() bool {
	return p.Visible && p.Available
}

// scanJSONColumn decodes a JSON column into dst
func scanJSONColumn(value interface{}, dst interface{}, what string) error {
	if value == nil {
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported %s column type %T", what, value)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", what, err)
	}
	return nil
}
