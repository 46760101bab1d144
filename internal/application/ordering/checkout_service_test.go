package ordering

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/catalog"
	"github.com/sabores/backend/internal/domain/delivery"
	"github.com/sabores/backend/internal/domain/ordering"
	"github.com/sabores/backend/internal/domain/settings"
	"github.com/sabores/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Square roughly covering central Lisbon
func lisbonArea(t *testing.T) *delivery.DeliveryArea {
	t.Helper()
	area, err := delivery.NewDeliveryArea("Baixa", delivery.DeliveryTypeFlat, delivery.Polygon{
		{Lat: 38.70, Lng: -9.15},
		{Lat: 38.72, Lng: -9.15},
		{Lat: 38.72, Lng: -9.12},
		{Lat: 38.70, Lng: -9.12},
	})
	require.NoError(t, err)
	require.NoError(t, area.SetFees(decimal.NewFromFloat(2.50), decimal.Zero, decimal.NewFromInt(10)))
	return area
}

func bacalhau(t *testing.T) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct("Bacalhau à Brás", decimal.NewFromFloat(12.50))
	require.NoError(t, err)
	product.ClearDomainEvents()
	return product
}

func checkoutReq(productID uuid.UUID) CheckoutRequest {
	return CheckoutRequest{
		CustomerName:  "Ana Costa",
		CustomerEmail: "ana@example.pt",
		CustomerPhone: "+351912345678",
		Street:        "Rua Augusta 12",
		City:          "Lisboa",
		PostalCode:    "1100-053",
		Lat:           38.7105,
		Lng:           -9.1390,
		PaymentMethod: "CASH",
		Items: []CheckoutItemRequest{
			{ProductID: productID, Quantity: 1},
		},
	}
}

func newCheckoutFixture(t *testing.T) (*CheckoutService, *mockOrderRepo, *mockProductRepo, *mockAreaRepo, *mockSettingsRepo, *capturingPublisher) {
	t.Helper()
	orders := new(mockOrderRepo)
	products := new(mockProductRepo)
	areas := new(mockAreaRepo)
	settingsRepo := new(mockSettingsRepo)
	publisher := new(capturingPublisher)

	svc := NewCheckoutService(orders, products, areas, settingsRepo, zap.NewNop())
	svc.SetEventPublisher(publisher)
	return svc, orders, products, areas, settingsRepo, publisher
}

func TestCheckout(t *testing.T) {
	t.Run("places order and publishes created event", func(t *testing.T) {
		svc, orders, products, areas, settingsRepo, publisher := newCheckoutFixture(t)
		product := bacalhau(t)

		settingsRepo.On("Load", mock.Anything).Return(settings.NewSettings("Sabores"), nil)
		areas.On("FindActiveOrdered", mock.Anything).Return([]delivery.DeliveryArea{*lisbonArea(t)}, nil)
		products.On("FindByIDs", mock.Anything, []uuid.UUID{product.ID}).Return([]catalog.Product{*product}, nil)
		orders.On("CreateWithNumber", mock.Anything, mock.AnythingOfType("*ordering.Order")).Return(nil)

		resp, err := svc.Checkout(context.Background(), checkoutReq(product.ID))
		require.NoError(t, err)

		assert.Equal(t, int64(1), resp.OrderNumber)
		assert.Equal(t, ordering.OrderStatusPending, resp.Status)
		assert.True(t, resp.Subtotal.Equal(decimal.NewFromFloat(12.50)))
		assert.True(t, resp.DeliveryFee.Equal(decimal.NewFromFloat(2.50)))
		assert.True(t, resp.Total.Equal(decimal.NewFromFloat(15.00)))

		events := publisher.Events()
		require.Len(t, events, 1)
		created, ok := events[0].(*ordering.OrderCreatedEvent)
		require.True(t, ok)
		assert.Equal(t, int64(1), created.OrderNumber)
		assert.Equal(t, "ana@example.pt", created.CustomerEmail)
	})

	t.Run("rejects checkout while store is offline", func(t *testing.T) {
		svc, orders, _, _, settingsRepo, _ := newCheckoutFixture(t)

		cfg := settings.NewSettings("Sabores")
		cfg.SetOnline(false)
		settingsRepo.On("Load", mock.Anything).Return(cfg, nil)

		_, err := svc.Checkout(context.Background(), checkoutReq(uuid.New()))
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "STORE_OFFLINE", domainErr.Code)
		orders.AssertNotCalled(t, "CreateWithNumber", mock.Anything, mock.Anything)
	})

	t.Run("rejects address outside every delivery area", func(t *testing.T) {
		svc, _, _, areas, settingsRepo, _ := newCheckoutFixture(t)

		settingsRepo.On("Load", mock.Anything).Return(settings.NewSettings("Sabores"), nil)
		areas.On("FindActiveOrdered", mock.Anything).Return([]delivery.DeliveryArea{*lisbonArea(t)}, nil)

		req := checkoutReq(uuid.New())
		req.Lat, req.Lng = 41.15, -8.61 // Porto
		_, err := svc.Checkout(context.Background(), req)
		assert.ErrorIs(t, err, delivery.ErrNoCoverage)
	})

	t.Run("rejects subtotal below area minimum", func(t *testing.T) {
		svc, orders, products, areas, settingsRepo, _ := newCheckoutFixture(t)

		cheap, err := catalog.NewProduct("Pastel de Nata", decimal.NewFromFloat(1.30))
		require.NoError(t, err)

		settingsRepo.On("Load", mock.Anything).Return(settings.NewSettings("Sabores"), nil)
		areas.On("FindActiveOrdered", mock.Anything).Return([]delivery.DeliveryArea{*lisbonArea(t)}, nil)
		products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*cheap}, nil)

		_, err = svc.Checkout(context.Background(), checkoutReq(cheap.ID))
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "MINIMUM_ORDER", domainErr.Code)
		orders.AssertNotCalled(t, "CreateWithNumber", mock.Anything, mock.Anything)
	})

	t.Run("rejects sold-out product", func(t *testing.T) {
		svc, _, products, areas, settingsRepo, _ := newCheckoutFixture(t)

		product := bacalhau(t)
		product.MarkSoldOut()

		settingsRepo.On("Load", mock.Anything).Return(settings.NewSettings("Sabores"), nil)
		areas.On("FindActiveOrdered", mock.Anything).Return([]delivery.DeliveryArea{*lisbonArea(t)}, nil)
		products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*product}, nil)

		_, err := svc.Checkout(context.Background(), checkoutReq(product.ID))
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PRODUCT_UNAVAILABLE", domainErr.Code)
	})

	t.Run("validates scheduled time against opening hours", func(t *testing.T) {
		svc, _, _, areas, settingsRepo, _ := newCheckoutFixture(t)

		settingsRepo.On("Load", mock.Anything).Return(settings.NewSettings("Sabores"), nil)
		areas.On("FindActiveOrdered", mock.Anything).Return([]delivery.DeliveryArea{*lisbonArea(t)}, nil)

		req := checkoutReq(uuid.New())
		// Default hours are 12:00-22:00; 03:00 is always outside them.
		at := time.Now().AddDate(0, 0, 2)
		at = time.Date(at.Year(), at.Month(), at.Day(), 3, 0, 0, 0, time.UTC)
		req.ScheduledFor = &at

		_, err := svc.Checkout(context.Background(), req)
		require.Error(t, err)
	})
}

func TestCheckoutOptionPricing(t *testing.T) {
	t.Run("adds validated choice deltas to the unit price", func(t *testing.T) {
		svc, orders, products, areas, settingsRepo, _ := newCheckoutFixture(t)

		product := bacalhau(t)
		option, err := catalog.NewProductOption(product.ID, "Tamanho", 1, 1, catalog.Choices{
			{Name: "Normal", PriceDelta: decimal.Zero},
			{Name: "Grande", PriceDelta: decimal.NewFromFloat(3.00)},
		})
		require.NoError(t, err)
		product.Options = []catalog.ProductOption{*option}

		settingsRepo.On("Load", mock.Anything).Return(settings.NewSettings("Sabores"), nil)
		areas.On("FindActiveOrdered", mock.Anything).Return([]delivery.DeliveryArea{*lisbonArea(t)}, nil)
		products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*product}, nil)
		orders.On("CreateWithNumber", mock.Anything, mock.AnythingOfType("*ordering.Order")).Return(nil)

		req := checkoutReq(product.ID)
		req.Items[0].Choices = map[string][]string{option.ID.String(): {"Grande"}}

		resp, err := svc.Checkout(context.Background(), req)
		require.NoError(t, err)
		assert.True(t, resp.Subtotal.Equal(decimal.NewFromFloat(15.50)))
		assert.Equal(t, []string{"Grande"}, resp.Items[0].Choices)
	})

	t.Run("enforces mandatory option groups", func(t *testing.T) {
		svc, orders, products, areas, settingsRepo, _ := newCheckoutFixture(t)

		product := bacalhau(t)
		option, err := catalog.NewProductOption(product.ID, "Tamanho", 1, 1, catalog.Choices{
			{Name: "Normal", PriceDelta: decimal.Zero},
		})
		require.NoError(t, err)
		product.Options = []catalog.ProductOption{*option}

		settingsRepo.On("Load", mock.Anything).Return(settings.NewSettings("Sabores"), nil)
		areas.On("FindActiveOrdered", mock.Anything).Return([]delivery.DeliveryArea{*lisbonArea(t)}, nil)
		products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*product}, nil)

		_, err = svc.Checkout(context.Background(), checkoutReq(product.ID))
		require.Error(t, err)
		orders.AssertNotCalled(t, "CreateWithNumber", mock.Anything, mock.Anything)
	})

	t.Run("rejects selections for foreign option groups", func(t *testing.T) {
		svc, _, products, areas, settingsRepo, _ := newCheckoutFixture(t)

		product := bacalhau(t)
		settingsRepo.On("Load", mock.Anything).Return(settings.NewSettings("Sabores"), nil)
		areas.On("FindActiveOrdered", mock.Anything).Return([]delivery.DeliveryArea{*lisbonArea(t)}, nil)
		products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*product}, nil)

		req := checkoutReq(product.ID)
		req.Items[0].Choices = map[string][]string{uuid.New().String(): {"Grande"}}

		_, err := svc.Checkout(context.Background(), req)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNKNOWN_OPTION", domainErr.Code)
	})
}

func TestCheckDeliveryPoint(t *testing.T) {
	svc, _, _, areas, settingsRepo, _ := newCheckoutFixture(t)

	settingsRepo.On("Load", mock.Anything).Return(settings.NewSettings("Sabores"), nil)
	areas.On("FindActiveOrdered", mock.Anything).Return([]delivery.DeliveryArea{*lisbonArea(t)}, nil)

	res, err := svc.CheckDeliveryPoint(context.Background(), 38.7105, -9.1390)
	require.NoError(t, err)
	assert.Equal(t, "Baixa", res.Area.Name)
	assert.True(t, res.Fee.Equal(decimal.NewFromFloat(2.50)))
	assert.True(t, res.MinimumOrder.Equal(decimal.NewFromInt(10)))
}
