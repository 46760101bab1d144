package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants. These names are wire-visible: webhook payloads
// and marketing triggers match on them.
const (
	EventTypeOrderCreated       = "order.created"
	EventTypeOrderStatusChanged = "order.status_changed"
)

// OrderItemInfo carries line item details on order events
type OrderItemInfo struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	PriceAtTime decimal.Decimal `json:"price_at_time"`
	Choices     []string        `json:"choices,omitempty"`
}

// OrderCreatedEvent is raised when a customer places an order
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID       `json:"order_id"`
	OrderNumber   int64           `json:"order_number"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
	Items         []OrderItemInfo `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	ScheduledFor  *time.Time      `json:"scheduled_for,omitempty"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	items := make([]OrderItemInfo, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemInfo{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			PriceAtTime: item.PriceAtTime,
			Choices:     item.Choices,
		}
	}

	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		CustomerPhone:   order.CustomerPhone,
		Items:           items,
		Subtotal:        order.Subtotal,
		DeliveryFee:     order.DeliveryFee,
		Total:           order.Total,
		PaymentMethod:   order.PaymentMethod,
		ScheduledFor:    order.ScheduledFor,
	}
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// OrderStatusChangedEvent is raised on every order status transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID   `json:"order_id"`
	OrderNumber   int64       `json:"order_number"`
	CustomerEmail string      `json:"customer_email"`
	FromStatus    OrderStatus `json:"from_status"`
	ToStatus      OrderStatus `json:"to_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(order *Order, from, to OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerEmail:   order.CustomerEmail,
		FromStatus:      from,
		ToStatus:        to,
	}
}

// EventType returns the event type name
func (e *OrderStatusChangedEvent) EventType() string {
	return EventTypeOrderStatusChanged
}
