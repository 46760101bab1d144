package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/ordering"
	"github.com/shopspring/decimal"
)

// CheckoutItemRequest is one cart line submitted at checkout. Choices maps
// option group IDs to the selected choice names for that group.
type CheckoutItemRequest struct {
	ProductID uuid.UUID           `json:"product_id" binding:"required"`
	Quantity  int                 `json:"quantity" binding:"required,min=1,max=50"`
	Choices   map[string][]string `json:"choices"`
	Notes     string              `json:"notes" binding:"omitempty,max=500"`
}

// CheckoutRequest is the storefront order submission payload
type CheckoutRequest struct {
	CustomerName  string                `json:"customer_name" binding:"required,max=200"`
	CustomerEmail string                `json:"customer_email" binding:"required,email"`
	CustomerPhone string                `json:"customer_phone" binding:"omitempty,max=50"`
	Street        string                `json:"street" binding:"required,max=255"`
	City          string                `json:"city" binding:"required,max=100"`
	PostalCode    string                `json:"postal_code" binding:"omitempty,max=20"`
	Lat           float64               `json:"lat" binding:"required"`
	Lng           float64               `json:"lng" binding:"required"`
	PaymentMethod string                `json:"payment_method" binding:"required"`
	ScheduledFor  *time.Time            `json:"scheduled_for"`
	Notes         string                `json:"notes" binding:"omitempty,max=1000"`
	Items         []CheckoutItemRequest `json:"items" binding:"required,min=1,max=50"`
}

// OrderItemResponse is a line item on an order response
type OrderItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	PriceAtTime decimal.Decimal `json:"price_at_time"`
	Choices     []string        `json:"choices,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// OrderResponse is the full order representation
type OrderResponse struct {
	ID            uuid.UUID              `json:"id"`
	OrderNumber   int64                  `json:"order_number"`
	CustomerName  string                 `json:"customer_name"`
	CustomerEmail string                 `json:"customer_email"`
	CustomerPhone string                 `json:"customer_phone,omitempty"`
	Street        string                 `json:"street"`
	City          string                 `json:"city"`
	PostalCode    string                 `json:"postal_code,omitempty"`
	Items         []OrderItemResponse    `json:"items"`
	Subtotal      decimal.Decimal        `json:"subtotal"`
	DeliveryFee   decimal.Decimal        `json:"delivery_fee"`
	Total         decimal.Decimal        `json:"total"`
	VATRate       decimal.Decimal        `json:"vat_rate"`
	VATAmount     decimal.Decimal        `json:"vat_amount"`
	PaymentMethod ordering.PaymentMethod `json:"payment_method"`
	Status        ordering.OrderStatus   `json:"status"`
	ScheduledFor  *time.Time             `json:"scheduled_for,omitempty"`
	Notes         string                 `json:"notes,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	ConfirmedAt   *time.Time             `json:"confirmed_at,omitempty"`
	DeliveredAt   *time.Time             `json:"delivered_at,omitempty"`
	CancelledAt   *time.Time             `json:"cancelled_at,omitempty"`
	CancelReason  string                 `json:"cancel_reason,omitempty"`
}

// ToOrderResponse converts an order aggregate to its response shape
func ToOrderResponse(o *ordering.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			PriceAtTime: item.PriceAtTime,
			Choices:     item.Choices,
			Notes:       item.Notes,
		}
	}

	return OrderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		CustomerPhone: o.CustomerPhone,
		Street:        o.Street,
		City:          o.City,
		PostalCode:    o.PostalCode,
		Items:         items,
		Subtotal:      o.Subtotal,
		DeliveryFee:   o.DeliveryFee,
		Total:         o.Total,
		VATRate:       o.VATRate,
		VATAmount:     o.VATAmount,
		PaymentMethod: o.PaymentMethod,
		Status:        o.Status,
		ScheduledFor:  o.ScheduledFor,
		Notes:         o.Notes,
		CreatedAt:     o.CreatedAt,
		ConfirmedAt:   o.ConfirmedAt,
		DeliveredAt:   o.DeliveredAt,
		CancelledAt:   o.CancelledAt,
		CancelReason:  o.CancelReason,
	}
}

// TrackResponse is the public order tracking projection: customers see
// progress but never internal identifiers or other customers' details.
type TrackResponse struct {
	OrderNumber  int64                `json:"order_number"`
	Status       ordering.OrderStatus `json:"status"`
	Total        decimal.Decimal      `json:"total"`
	ScheduledFor *time.Time           `json:"scheduled_for,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
}

// ToTrackResponse converts an order to its public tracking shape
func ToTrackResponse(o *ordering.Order) TrackResponse {
	return TrackResponse{
		OrderNumber:  o.OrderNumber,
		Status:       o.Status,
		Total:        o.Total,
		ScheduledFor: o.ScheduledFor,
		CreatedAt:    o.CreatedAt,
	}
}

// UpdateStatusRequest moves an order to a new status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CancelRequest cancels an order with a reason
type CancelRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

// ListFilter narrows the admin order listing
type ListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
	Status   string `form:"status"`
	Email    string `form:"email"`
}
