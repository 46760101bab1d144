package ordering

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/delivery"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lisbonPoint() delivery.Point {
	return delivery.Point{Lat: 38.7223, Lng: -9.1393}
}

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	order, err := NewOrder(1, "Ana Ferreira", "ana@example.com", "+351912345678",
		"Rua Augusta 100", "Lisboa", "1100-053", lisbonPoint(),
		PaymentMethodMBWay, decimal.NewFromFloat(2.5), decimal.NewFromInt(23))
	require.NoError(t, err)
	return order
}

func TestNewOrder(t *testing.T) {
	t.Run("creates pending order", func(t *testing.T) {
		order := newTestOrder(t)
		assert.Equal(t, OrderStatusPending, order.Status)
		assert.Equal(t, int64(1), order.OrderNumber)
		assert.True(t, order.Subtotal.IsZero())
		assert.Empty(t, order.GetDomainEvents())
	})

	t.Run("rejects negative order number", func(t *testing.T) {
		_, err := NewOrder(-1, "Ana", "ana@example.com", "", "Rua Augusta 100", "Lisboa", "",
			lisbonPoint(), PaymentMethodCash, decimal.Zero, decimal.NewFromInt(23))
		require.Error(t, err)
	})

	t.Run("rejects incomplete address", func(t *testing.T) {
		_, err := NewOrder(1, "Ana", "ana@example.com", "", "", "Lisboa", "",
			lisbonPoint(), PaymentMethodCash, decimal.Zero, decimal.NewFromInt(23))
		require.Error(t, err)
	})

	t.Run("rejects unknown payment method", func(t *testing.T) {
		_, err := NewOrder(1, "Ana", "ana@example.com", "", "Rua Augusta 100", "Lisboa", "",
			lisbonPoint(), PaymentMethod("CHEQUE"), decimal.Zero, decimal.NewFromInt(23))
		require.Error(t, err)
	})
}

func TestOrderTotals(t *testing.T) {
	order := newTestOrder(t)

	_, err := order.AddItem(uuid.New(), "Bacalhau à Brás", 2, decimal.NewFromFloat(12.5), nil)
	require.NoError(t, err)
	_, err = order.AddItem(uuid.New(), "Francesinha", 1, decimal.NewFromFloat(14.0), SelectedChoices{"Extra molho"})
	require.NoError(t, err)

	// 2*12.50 + 14.00 = 39.00 subtotal, +2.50 fee = 41.50 total
	assert.True(t, order.Subtotal.Equal(decimal.NewFromFloat(39.0)), "subtotal: %s", order.Subtotal)
	assert.True(t, order.Total.Equal(decimal.NewFromFloat(41.5)), "total: %s", order.Total)

	// VAT included at 23%: 41.50 * 23 / 123 = 7.76
	assert.True(t, order.VATAmount.Equal(decimal.NewFromFloat(7.76)), "vat: %s", order.VATAmount)
}

func TestOrderPlace(t *testing.T) {
	t.Run("fails without items", func(t *testing.T) {
		order := newTestOrder(t)
		require.Error(t, order.Place())
	})

	t.Run("emits created event", func(t *testing.T) {
		order := newTestOrder(t)
		_, err := order.AddItem(uuid.New(), "Arroz de Marisco", 1, decimal.NewFromFloat(16.0), nil)
		require.NoError(t, err)
		require.NoError(t, order.Place())

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOrderCreated, events[0].EventType())

		created, ok := events[0].(*OrderCreatedEvent)
		require.True(t, ok)
		assert.Equal(t, int64(1), created.OrderNumber)
		require.Len(t, created.Items, 1)
		assert.Equal(t, "Arroz de Marisco", created.Items[0].ProductName)
	})
}

func TestOrderStatusTransitions(t *testing.T) {
	t.Run("full happy path", func(t *testing.T) {
		order := newTestOrder(t)
		for _, target := range []OrderStatus{
			OrderStatusConfirmed, OrderStatusPreparing, OrderStatusOutForDelivery, OrderStatusDelivered,
		} {
			require.NoError(t, order.TransitionTo(target))
			assert.Equal(t, target, order.Status)
		}
		assert.True(t, order.IsTerminal())
		assert.NotNil(t, order.ConfirmedAt)
		assert.NotNil(t, order.DeliveredAt)
	})

	t.Run("rejects skipping states", func(t *testing.T) {
		order := newTestOrder(t)
		require.Error(t, order.TransitionTo(OrderStatusDelivered))
		require.Error(t, order.TransitionTo(OrderStatusOutForDelivery))
	})

	t.Run("delivered is terminal", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.TransitionTo(OrderStatusConfirmed))
		require.NoError(t, order.TransitionTo(OrderStatusPreparing))
		require.NoError(t, order.TransitionTo(OrderStatusOutForDelivery))
		require.NoError(t, order.TransitionTo(OrderStatusDelivered))
		require.Error(t, order.TransitionTo(OrderStatusCancelled))
	})

	t.Run("cannot cancel once out for delivery", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.TransitionTo(OrderStatusConfirmed))
		require.NoError(t, order.TransitionTo(OrderStatusPreparing))
		require.NoError(t, order.TransitionTo(OrderStatusOutForDelivery))
		require.Error(t, order.Cancel("customer changed mind"))
	})

	t.Run("each transition emits event", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.TransitionTo(OrderStatusConfirmed))

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		changed, ok := events[0].(*OrderStatusChangedEvent)
		require.True(t, ok)
		assert.Equal(t, OrderStatusPending, changed.FromStatus)
		assert.Equal(t, OrderStatusConfirmed, changed.ToStatus)
	})
}

func TestOrderCancel(t *testing.T) {
	t.Run("requires a reason", func(t *testing.T) {
		order := newTestOrder(t)
		require.Error(t, order.Cancel(""))
	})

	t.Run("records reason and timestamp", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.Cancel("kitchen closed early"))
		assert.Equal(t, OrderStatusCancelled, order.Status)
		assert.Equal(t, "kitchen closed early", order.CancelReason)
		assert.NotNil(t, order.CancelledAt)
	})
}

func TestOrderScheduling(t *testing.T) {
	order := newTestOrder(t)
	at := time.Now().Add(2 * time.Hour)
	require.NoError(t, order.SetScheduledFor(at))
	require.NotNil(t, order.ScheduledFor)
	assert.True(t, order.ScheduledFor.Equal(at))

	require.NoError(t, order.TransitionTo(OrderStatusConfirmed))
	require.Error(t, order.SetScheduledFor(at.Add(time.Hour)))
}

func TestOrderItemSnapshot(t *testing.T) {
	item, err := NewOrderItem(uuid.New(), uuid.New(), "Pastel de Nata", 6, decimal.NewFromFloat(1.3), nil)
	require.NoError(t, err)
	assert.True(t, item.LineTotal().Equal(decimal.NewFromFloat(7.8)))

	_, err = NewOrderItem(uuid.New(), uuid.New(), "Pastel de Nata", 0, decimal.NewFromFloat(1.3), nil)
	require.Error(t, err)

	_, err = NewOrderItem(uuid.New(), uuid.Nil, "Pastel de Nata", 1, decimal.NewFromFloat(1.3), nil)
	require.Error(t, err)
}
