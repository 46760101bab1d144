package marketing

import (
	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeCart = "Cart"

// CartAbandonedEvent is raised when the storefront reports a cart that
// was filled but never checked out. It feeds the cart.abandoned
// automation trigger.
type CartAbandonedEvent struct {
	shared.BaseDomainEvent
	CustomerEmail string          `json:"customer_email"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
	CartValue     decimal.Decimal `json:"cart_value"`
	ItemCount     int             `json:"item_count"`
}

// NewCartAbandonedEvent creates a new CartAbandonedEvent
func NewCartAbandonedEvent(customerEmail, customerPhone string, cartValue decimal.Decimal, itemCount int) *CartAbandonedEvent {
	return &CartAbandonedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(TriggerCartAbandoned, AggregateTypeCart, uuid.New()),
		CustomerEmail:   customerEmail,
		CustomerPhone:   customerPhone,
		CartValue:       cartValue,
		ItemCount:       itemCount,
	}
}

// EventType returns the event type name
func (e *CartAbandonedEvent) EventType() string {
	return TriggerCartAbandoned
}
