package catalog

import (
	"github.com/sabores/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types published by the catalog context
const (
	EventTypeProductCreated = "product.created"
	EventTypeProductUpdated = "product.updated"
)

// ProductCreatedEvent is published when a product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

// NewProductCreatedEvent creates a ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, "Product", p.ID),
		ProductID:       p.ID.String(),
		Name:            p.Name,
		Price:           p.Price,
	}
}

// ProductUpdatedEvent is published when a product changes
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

// NewProductUpdatedEvent creates a ProductUpdatedEvent
func NewProductUpdatedEvent(p *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, "Product", p.ID),
		ProductID:       p.ID.String(),
		Name:            p.Name,
		Price:           p.Price,
	}
}
