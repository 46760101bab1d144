package ordering

import (
	"context"

	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/shared"
)

// OrderRepository persists orders and their items
type OrderRepository interface {
	shared.Repository[Order]

	// CreateWithNumber persists the order and its items in one transaction,
	// assigning OrderNumber = max(existing)+1 under a row lock so concurrent
	// checkouts never produce duplicate numbers.
	CreateWithNumber(ctx context.Context, order *Order) error

	FindByNumber(ctx context.Context, number int64) (*Order, error)
	FindByStatus(ctx context.Context, status OrderStatus, filter shared.Filter) ([]Order, error)
	FindByCustomerEmail(ctx context.Context, email string, filter shared.Filter) ([]Order, error)

	// DeleteWithItems removes the order and all of its items transactionally
	DeleteWithItems(ctx context.Context, id uuid.UUID) error
}
