package webhook

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWebhook(t *testing.T) *Webhook {
	t.Helper()
	hook, err := NewWebhook("Notificações de encomendas", "https://example.com/hooks/orders", "POST",
		Headers{"X-Api-Key": "abc"}, "s3cret", EventNames{"order.created", "order.status_changed"})
	require.NoError(t, err)
	return hook
}

func TestNewWebhook(t *testing.T) {
	t.Run("creates active webhook", func(t *testing.T) {
		hook := newTestWebhook(t)
		assert.True(t, hook.Active)
		assert.Equal(t, int64(0), hook.SuccessCount)
		assert.Equal(t, "POST", hook.Method)
	})

	t.Run("defaults method to POST", func(t *testing.T) {
		hook, err := NewWebhook("h", "https://example.com", "", nil, "", EventNames{"order.created"})
		require.NoError(t, err)
		assert.Equal(t, "POST", hook.Method)
	})

	t.Run("rejects invalid URL", func(t *testing.T) {
		_, err := NewWebhook("h", "not-a-url", "POST", nil, "", EventNames{"order.created"})
		require.Error(t, err)

		_, err = NewWebhook("h", "ftp://example.com", "POST", nil, "", EventNames{"order.created"})
		require.Error(t, err)
	})

	t.Run("rejects GET method", func(t *testing.T) {
		_, err := NewWebhook("h", "https://example.com", "GET", nil, "", EventNames{"order.created"})
		require.Error(t, err)
	})

	t.Run("rejects empty event list", func(t *testing.T) {
		_, err := NewWebhook("h", "https://example.com", "POST", nil, "", nil)
		require.Error(t, err)
	})
}

func TestSubscribesTo(t *testing.T) {
	hook := newTestWebhook(t)

	assert.True(t, hook.SubscribesTo("order.created"))
	assert.False(t, hook.SubscribesTo("product.updated"))

	hook.Deactivate()
	assert.False(t, hook.SubscribesTo("order.created"), "inactive webhooks receive nothing")

	hook.Activate()
	assert.True(t, hook.SubscribesTo("order.created"))
}

func TestWebhookUpdate(t *testing.T) {
	hook := newTestWebhook(t)

	require.NoError(t, hook.Update("Renomeado", "https://example.org/hook", "PUT", nil, "", EventNames{"product.created"}))
	assert.Equal(t, "https://example.org/hook", hook.URL)
	assert.Equal(t, 1, hook.GetVersion())

	require.Error(t, hook.Update("Renomeado", "https://example.org/hook", "DELETE", nil, "", EventNames{"product.created"}))
}

func TestWebhookLogs(t *testing.T) {
	id := uuid.New()

	success := NewSuccessLog(id, "order.created", 200, 150*time.Millisecond)
	assert.Equal(t, DeliveryStatusSuccess, success.Status)
	assert.Equal(t, 200, success.HTTPStatus)
	assert.Equal(t, int64(150), success.DurationMs)
	assert.Empty(t, success.Error)

	failed := NewFailureLog(id, "order.created", 500, errors.New("internal server error"), 80*time.Millisecond)
	assert.Equal(t, DeliveryStatusFailed, failed.Status)
	assert.Equal(t, 500, failed.HTTPStatus)
	assert.Equal(t, "internal server error", failed.Error)

	unreachable := NewFailureLog(id, "order.created", 0, errors.New("connection refused"), time.Second)
	assert.Equal(t, 0, unreachable.HTTPStatus)
}

func TestEventNamesRoundTrip(t *testing.T) {
	events := EventNames{"order.created", "order.status_changed"}
	value, err := events.Value()
	require.NoError(t, err)

	var decoded EventNames
	require.NoError(t, decoded.Scan(value))
	assert.True(t, decoded.Contains("order.created"))
	assert.False(t, decoded.Contains("order.deleted"))
}
