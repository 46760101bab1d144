package ordering

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/delivery"
	"github.com/sabores/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the fulfilment status of a customer order
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "PENDING"
	OrderStatusConfirmed      OrderStatus = "CONFIRMED"
	OrderStatusPreparing      OrderStatus = "PREPARING"
	OrderStatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusPreparing || target == OrderStatusCancelled
	case OrderStatusPreparing:
		return target == OrderStatusOutForDelivery || target == OrderStatusCancelled
	case OrderStatusOutForDelivery:
		return target == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// PaymentMethod represents how the customer pays for the order
type PaymentMethod string

const (
	PaymentMethodCash  PaymentMethod = "CASH"
	PaymentMethodCard  PaymentMethod = "CARD"
	PaymentMethodMBWay PaymentMethod = "MBWAY"
)

// IsValid checks if the payment method is supported
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodMBWay:
		return true
	}
	return false
}

// SelectedChoices holds the option choices snapshotted on an order item,
// stored as a JSON column.
type SelectedChoices []string

// Value implements driver.Valuer
func (c SelectedChoices) Value() (driver.Value, error) {
	if c == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner
func (c *SelectedChoices) Scan(value interface{}) error {
	if value == nil {
		*c = SelectedChoices{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for SelectedChoices: %T", value)
	}
	return json.Unmarshal(data, c)
}

// OrderItem is a line item on an order. Product name and price are
// snapshotted at order time so later catalog edits never rewrite history.
type OrderItem struct {
	shared.BaseEntity
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int             `gorm:"not null"`
	PriceAtTime decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Choices     SelectedChoices `gorm:"type:jsonb"`
	Notes       string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates a line item with its price snapshotted.
// priceAtTime is the unit price including any option choice deltas.
func NewOrderItem(orderID, productID uuid.UUID, productName string, quantity int, priceAtTime decimal.Decimal, choices SelectedChoices) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if priceAtTime.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	return &OrderItem{
		BaseEntity:  shared.NewBaseEntity(),
		OrderID:     orderID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		PriceAtTime: priceAtTime,
		Choices:     choices,
	}, nil
}

// LineTotal returns PriceAtTime multiplied by Quantity
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.PriceAtTime.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order represents a customer order aggregate root.
// Orders are numbered sequentially; the number is assigned by the
// repository inside the creation transaction, never by the aggregate.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber   int64  `gorm:"uniqueIndex;not null"`
	CustomerName  string `gorm:"type:varchar(200);not null"`
	CustomerEmail string `gorm:"type:varchar(255);not null;index"`
	CustomerPhone string `gorm:"type:varchar(50)"`

	Street     string `gorm:"type:varchar(255);not null"`
	City       string `gorm:"type:varchar(100);not null"`
	PostalCode string `gorm:"type:varchar(20)"`
	Lat        float64
	Lng        float64

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	Subtotal    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DeliveryFee decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	// Prices are VAT inclusive; VATAmount is the portion extracted at VATRate.
	VATRate   decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	VATAmount decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null"`
	Status        OrderStatus   `gorm:"type:varchar(30);not null;index"`
	ScheduledFor  *time.Time
	Notes         string `gorm:"type:text"`

	ConfirmedAt  *time.Time
	DeliveredAt  *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a pending order with totals computed from the given
// items, delivery fee and VAT rate.
func NewOrder(orderNumber int64, customerName, customerEmail, customerPhone, street, city, postalCode string, point delivery.Point, payment PaymentMethod, deliveryFee, vatRate decimal.Decimal) (*Order, error) {
	// Zero means not yet assigned; the repository fills it in on create.
	if orderNumber < 0 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be negative")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if customerEmail == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_EMAIL", "Customer email cannot be empty")
	}
	if street == "" || city == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Delivery address is incomplete")
	}
	if !payment.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unknown payment method %s", payment))
	}
	if deliveryFee.IsNegative() {
		return nil, shared.NewDomainError("INVALID_FEE", "Delivery fee cannot be negative")
	}
	if vatRate.IsNegative() || vatRate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_VAT_RATE", "VAT rate must be between 0 and 100")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CustomerName:      customerName,
		CustomerEmail:     customerEmail,
		CustomerPhone:     customerPhone,
		Street:            street,
		City:              city,
		PostalCode:        postalCode,
		Lat:               point.Lat,
		Lng:               point.Lng,
		Items:             make([]OrderItem, 0),
		Subtotal:          decimal.Zero,
		DeliveryFee:       deliveryFee,
		Total:             decimal.Zero,
		VATRate:           vatRate,
		VATAmount:         decimal.Zero,
		PaymentMethod:     payment,
		Status:            OrderStatusPending,
	}

	return order, nil
}

// AddItem appends a line item and recalculates totals.
// Only allowed while the order is still pending.
func (o *Order) AddItem(productID uuid.UUID, productName string, quantity int, priceAtTime decimal.Decimal, choices SelectedChoices) (*OrderItem, error) {
	if o.Status != OrderStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-pending order")
	}

	item, err := NewOrderItem(o.ID, productID, productName, quantity, priceAtTime, choices)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()

	return item, nil
}

// Place finalizes a freshly built order and raises the created event.
// Requires at least one item.
func (o *Order) Place() error {
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot place an order without items")
	}

	o.AddDomainEvent(NewOrderCreatedEvent(o))
	return nil
}

// SetScheduledFor sets the requested fulfilment time. Validation against
// opening hours and lead time happens in the application service.
func (o *Order) SetScheduledFor(at time.Time) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot reschedule a non-pending order")
	}
	o.ScheduledFor = &at
	o.UpdatedAt = time.Now()
	return nil
}

// SetNotes sets the customer's order notes
func (o *Order) SetNotes(notes string) {
	o.Notes = notes
	o.UpdatedAt = time.Now()
}

// TransitionTo moves the order to the target status, raising a status
// change event. Invalid transitions are rejected.
func (o *Order) TransitionTo(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %s", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot transition order from %s to %s", o.Status, target))
	}

	from := o.Status
	now := time.Now()
	o.Status = target
	o.UpdatedAt = now

	switch target {
	case OrderStatusConfirmed:
		o.ConfirmedAt = &now
	case OrderStatusDelivered:
		o.DeliveredAt = &now
	case OrderStatusCancelled:
		o.CancelledAt = &now
	}

	o.IncrementVersion()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, target))

	return nil
}

// Cancel cancels the order with a reason
func (o *Order) Cancel(reason string) error {
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	if err := o.TransitionTo(OrderStatusCancelled); err != nil {
		return err
	}
	o.CancelReason = reason
	return nil
}

// IsTerminal returns true if the order is delivered or cancelled
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}

// ItemCount returns the number of line items
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// Point returns the delivery coordinate for the order
func (o *Order) Point() delivery.Point {
	return delivery.Point{Lat: o.Lat, Lng: o.Lng}
}

func (o *Order) recalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	o.Subtotal = subtotal
	o.Total = subtotal.Add(o.DeliveryFee)

	// Extract the included VAT: total * rate / (100 + rate)
	divisor := decimal.NewFromInt(100).Add(o.VATRate)
	if divisor.IsPositive() {
		o.VATAmount = o.Total.Mul(o.VATRate).Div(divisor).Round(2)
	}
}
