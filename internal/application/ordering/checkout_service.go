package ordering

import (
	"context"

	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/catalog"
	"github.com/sabores/backend/internal/domain/delivery"
	"github.com/sabores/backend/internal/domain/ordering"
	"github.com/sabores/backend/internal/domain/settings"
	"github.com/sabores/backend/internal/domain/shared"
	applog "github.com/sabores/backend/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CheckoutService turns a storefront cart into a placed order. It is the
// single write path for customers: everything the client sent is re-priced
// and re-validated server-side before anything is persisted.
type CheckoutService struct {
	orders    ordering.OrderRepository
	products  catalog.ProductRepository
	areas     delivery.DeliveryAreaRepository
	settings  settings.SettingsRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	orders ordering.OrderRepository,
	products catalog.ProductRepository,
	areas delivery.DeliveryAreaRepository,
	settingsRepo settings.SettingsRepository,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		orders:   orders,
		products: products,
		areas:    areas,
		settings: settingsRepo,
		logger:   logger.Named("checkout"),
	}
}

// SetEventPublisher sets the publisher notified after a successful checkout
func (s *CheckoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Checkout validates the cart, resolves the delivery area, prices every
// line from the catalog and persists the order with the next sequential
// number. The order.created event fires only after the order is durable.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (*OrderResponse, error) {
	cfg, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !cfg.Online {
		return nil, shared.NewDomainError("STORE_OFFLINE", "Online ordering is currently disabled")
	}

	payment := ordering.PaymentMethod(req.PaymentMethod)
	if !payment.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}

	point := delivery.Point{Lat: req.Lat, Lng: req.Lng}
	resolution, err := s.resolveArea(ctx, cfg, point)
	if err != nil {
		return nil, err
	}

	order, err := ordering.NewOrder(0, req.CustomerName, req.CustomerEmail, req.CustomerPhone,
		req.Street, req.City, req.PostalCode, point, payment, resolution.Fee, cfg.VATRate)
	if err != nil {
		return nil, err
	}
	order.SetNotes(req.Notes)

	if req.ScheduledFor != nil {
		if err := cfg.SchedulingValidator().Validate(*req.ScheduledFor); err != nil {
			return nil, err
		}
		if err := order.SetScheduledFor(*req.ScheduledFor); err != nil {
			return nil, err
		}
	}

	if err := s.addItems(ctx, order, req.Items); err != nil {
		return nil, err
	}

	if order.Subtotal.LessThan(resolution.MinimumOrder) {
		return nil, shared.NewDomainError("MINIMUM_ORDER",
			"Order subtotal is below the minimum for this delivery area")
	}

	if err := s.orders.CreateWithNumber(ctx, order); err != nil {
		return nil, err
	}

	// Raised after the insert so the event carries the assigned number.
	if err := order.Place(); err != nil {
		return nil, err
	}
	s.publish(ctx, order)

	applog.WithLogger(ctx, s.logger).Info("order placed",
		zap.Int64("order_number", order.OrderNumber),
		zap.String("customer_email", order.CustomerEmail),
		zap.String("total", order.Total.String()),
	)

	resp := ToOrderResponse(order)
	return &resp, nil
}

// CheckDeliveryPoint reports whether a coordinate is deliverable, and at
// what fee and minimum, without creating anything.
func (s *CheckoutService) CheckDeliveryPoint(ctx context.Context, lat, lng float64) (*delivery.Resolution, error) {
	cfg, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.resolveArea(ctx, cfg, delivery.Point{Lat: lat, Lng: lng})
}

func (s *CheckoutService) resolveArea(ctx context.Context, cfg *settings.Settings, point delivery.Point) (*delivery.Resolution, error) {
	areas, err := s.areas.FindActiveOrdered(ctx)
	if err != nil {
		return nil, err
	}
	return delivery.Resolve(areas, cfg.Origin(), point)
}

func (s *CheckoutService) addItems(ctx context.Context, order *ordering.Order, items []CheckoutItemRequest) error {
	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok || !product.Orderable() {
			return shared.NewDomainError("PRODUCT_UNAVAILABLE",
				"One of the ordered products is not available")
		}

		unitPrice, choices, err := priceItem(product, item.Choices)
		if err != nil {
			return err
		}

		if _, err := order.AddItem(product.ID, product.Name, item.Quantity, unitPrice, choices); err != nil {
			return err
		}
		order.Items[len(order.Items)-1].Notes = item.Notes
	}

	return nil
}

// priceItem computes the unit price for a cart line: catalog price plus
// the validated option choice deltas. Every option group on the product is
// checked, so groups with a minimum selection cannot be skipped.
func priceItem(product *catalog.Product, selections map[string][]string) (decimal.Decimal, ordering.SelectedChoices, error) {
	unitPrice := product.Price
	flat := make(ordering.SelectedChoices, 0)

	for i := range product.Options {
		option := &product.Options[i]
		selected := selections[option.ID.String()]

		delta, err := option.ValidateSelection(selected)
		if err != nil {
			return decimal.Zero, nil, err
		}
		unitPrice = unitPrice.Add(delta)
		flat = append(flat, selected...)
	}

	// Unknown option group keys on the request are rejected, not ignored.
	if len(selections) > 0 {
		known := make(map[string]bool, len(product.Options))
		for i := range product.Options {
			known[product.Options[i].ID.String()] = true
		}
		for key := range selections {
			if !known[key] {
				return decimal.Zero, nil, shared.NewDomainError("UNKNOWN_OPTION",
					"Selection references an option that does not belong to the product")
			}
		}
	}

	if unitPrice.IsNegative() {
		return decimal.Zero, nil, shared.NewDomainError("INVALID_PRICE",
			"Option choices cannot reduce an item price below zero")
	}

	return unitPrice, flat, nil
}

func (s *CheckoutService) publish(ctx context.Context, order *ordering.Order) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, order.GetDomainEvents()...); err != nil {
		applog.WithLogger(ctx, s.logger).Error("failed to publish order events",
			zap.Int64("order_number", order.OrderNumber),
			zap.Error(err),
		)
	}
	order.ClearDomainEvents()
}
