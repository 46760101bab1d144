package catalog

import (
	"time"

	"github.com/sabores/backend/internal/domain/shared"
)

// Category groups products on the storefront menu
type Category struct {
	shared.BaseAggregateRoot
	Name      string `gorm:"type:varchar(100);not null"`
	Active    bool   `gorm:"not null;default:true"`
	SortOrder int    `gorm:"not null;default:0;index"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(name string) (*Category, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}

	return &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Active:            true,
	}, nil
}

// Rename changes the category name
func (c *Category) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	c.Name = name
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetSortOrder sets the storefront display order
func (c *Category) SetSortOrder(order int) {
	c.SortOrder = order
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Activate makes the category visible
func (c *Category) Activate() {
	c.Active = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Deactivate hides the category and its products from the storefront
func (c *Category) Deactivate() {
	c.Active = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
