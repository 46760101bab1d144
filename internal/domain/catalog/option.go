package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Choice is a selectable entry within an option group, with a price delta
// applied on top of the product price
type Choice struct {
	Name       string          `json:"name"`
	PriceDelta decimal.Decimal `json:"price_delta"`
}

// Choices is the JSON-persisted list of option choices
type Choices []Choice

// Value implements driver.Valuer
func (c Choices) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner
func (c *Choices) Scan(value interface{}) error {
	return scanJSONColumn(value, c, "option choices")
}

// ByName returns the choice with the given name
func (c Choices) ByName(name string) (Choice, bool) {
	for _, choice := range c {
		if choice.Name == name {
			return choice, true
		}
	}
	return Choice{}, false
}

// ProductOption is a named group of selectable modifiers for a product
// (size, extras…) with selection count bounds.
type ProductOption struct {
	shared.BaseAggregateRoot
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(100);not null"`
	MinSelect int       `gorm:"not null;default:0"`
	MaxSelect int       `gorm:"not null;default:1"`
	Choices   Choices   `gorm:"type:jsonb;not null"`
	SortOrder int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductOption) TableName() string {
	return "product_options"
}

// NewProductOption creates a new option group for a product
func NewProductOption(productID uuid.UUID, name string, minSelect, maxSelect int, choices Choices) (*ProductOption, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Option name cannot be empty")
	}
	if err := validateSelectionBounds(minSelect, maxSelect, len(choices)); err != nil {
		return nil, err
	}
	if len(choices) == 0 {
		return nil, shared.NewDomainError("INVALID_CHOICES", "Option needs at least one choice")
	}

	return &ProductOption{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		Name:              name,
		MinSelect:         minSelect,
		MaxSelect:         maxSelect,
		Choices:           choices,
	}, nil
}

// Update replaces the option's name, bounds and choices
func (o *ProductOption) Update(name string, minSelect, maxSelect int, choices Choices) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Option name cannot be empty")
	}
	if len(choices) == 0 {
		return shared.NewDomainError("INVALID_CHOICES", "Option needs at least one choice")
	}
	if err := validateSelectionBounds(minSelect, maxSelect, len(choices)); err != nil {
		return err
	}

	o.Name = name
	o.MinSelect = minSelect
	o.MaxSelect = maxSelect
	o.Choices = choices
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// SetSortOrder sets the display order within the product
func (o *ProductOption) SetSortOrder(order int) {
	o.SortOrder = order
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// ValidateSelection checks a customer's chosen entries against the option's
// bounds and choice list, returning the summed price delta.
func (o *ProductOption) ValidateSelection(selected []string) (decimal.Decimal, error) {
	if len(selected) < o.MinSelect {
		return decimal.Zero, shared.NewDomainError("SELECTION_TOO_FEW",
			"Not enough choices selected for option "+o.Name)
	}
	if len(selected) > o.MaxSelect {
		return decimal.Zero, shared.NewDomainError("SELECTION_TOO_MANY",
			"Too many choices selected for option "+o.Name)
	}

	total := decimal.Zero
	for _, name := range selected {
		choice, ok := o.Choices.ByName(name)
		if !ok {
			return decimal.Zero, shared.NewDomainError("UNKNOWN_CHOICE",
				"Choice "+name+" does not exist in option "+o.Name)
		}
		total = total.Add(choice.PriceDelta)
	}
	return total, nil
}

func validateSelectionBounds(minSelect, maxSelect, choiceCount int) error {
	if minSelect < 0 {
		return shared.NewDomainError("INVALID_BOUNDS", "Minimum selection cannot be negative")
	}
	if maxSelect < 1 {
		return shared.NewDomainError("INVALID_BOUNDS", "Maximum selection must be at least 1")
	}
	if minSelect > maxSelect {
		return shared.NewDomainError("INVALID_BOUNDS", "Minimum selection cannot exceed maximum")
	}
	if choiceCount > 0 && minSelect > choiceCount {
		return shared.NewDomainError("INVALID_BOUNDS", "Minimum selection cannot exceed the number of choices")
	}
	return nil
}
