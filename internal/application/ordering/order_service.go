package ordering

import (
	"context"

	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/ordering"
	"github.com/sabores/backend/internal/domain/shared"
	applog "github.com/sabores/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// OrderService handles back-office order management
type OrderService struct {
	orders    ordering.OrderRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orders ordering.OrderRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		orders: orders,
		logger: logger.Named("orders"),
	}
}

// SetEventPublisher sets the publisher notified on status changes
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// GetByID retrieves an order with its items
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// Track returns the public tracking projection for an order number
func (s *OrderService) Track(ctx context.Context, number int64) (*TrackResponse, error) {
	order, err := s.orders.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	resp := ToTrackResponse(order)
	return &resp, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter ListFilter) (*shared.Paginated[OrderResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	var orders []ordering.Order
	var err error
	switch {
	case filter.Status != "":
		status := ordering.OrderStatus(filter.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown order status")
		}
		domainFilter.Filters["status"] = string(status)
		orders, err = s.orders.FindByStatus(ctx, status, domainFilter)
	case filter.Email != "":
		orders, err = s.orders.FindByCustomerEmail(ctx, filter.Email, domainFilter)
	default:
		orders, err = s.orders.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.orders.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]OrderResponse, len(orders))
	for i := range orders {
		items[i] = ToOrderResponse(&orders[i])
	}

	paginated := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &paginated, nil
}

// UpdateStatus transitions an order to a new status, emitting the status
// change event after the transition is persisted.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := order.TransitionTo(ordering.OrderStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publish(ctx, order)

	applog.WithLogger(ctx, s.logger).Info("order status changed",
		zap.Int64("order_number", order.OrderNumber),
		zap.String("status", string(order.Status)),
	)

	resp := ToOrderResponse(order)
	return &resp, nil
}

// Cancel cancels an order with a reason
func (s *OrderService) Cancel(ctx context.Context, id uuid.UUID, req CancelRequest) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := order.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publish(ctx, order)

	resp := ToOrderResponse(order)
	return &resp, nil
}

// Delete removes an order and its items permanently
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.orders.DeleteWithItems(ctx, id)
}

func (s *OrderService) publish(ctx context.Context, order *ordering.Order) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, order.GetDomainEvents()...); err != nil {
		s.logger.Error("failed to publish order events",
			zap.Int64("order_number", order.OrderNumber),
			zap.Error(err),
		)
	}
	order.ClearDomainEvents()
}
