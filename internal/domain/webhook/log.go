package webhook

import (
	"time"

	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/shared"
)

// DeliveryStatus is the outcome of one delivery attempt
type DeliveryStatus string

const (
	DeliveryStatusSuccess DeliveryStatus = "SUCCESS"
	DeliveryStatusFailed  DeliveryStatus = "FAILED"
)

// WebhookLog records one delivery attempt. Rows are append-only.
type WebhookLog struct {
	shared.BaseEntity
	WebhookID  uuid.UUID      `gorm:"type:uuid;not null;index"`
	Event      string         `gorm:"type:varchar(100);not null"`
	Status     DeliveryStatus `gorm:"type:varchar(10);not null"`
	HTTPStatus int            `gorm:"not null;default:0"`
	Error      string         `gorm:"type:text"`
	DurationMs int64          `gorm:"not null"`
}

// TableName returns the table name for GORM
func (WebhookLog) TableName() string {
	return "webhook_logs"
}

// NewSuccessLog records a delivery that got a 2xx response
func NewSuccessLog(webhookID uuid.UUID, event string, httpStatus int, duration time.Duration) *WebhookLog {
	return &WebhookLog{
		BaseEntity: shared.NewBaseEntity(),
		WebhookID:  webhookID,
		Event:      event,
		Status:     DeliveryStatusSuccess,
		HTTPStatus: httpStatus,
		DurationMs: duration.Milliseconds(),
	}
}

// NewFailureLog records a failed delivery. httpStatus is 0 when the
// request never reached the endpoint.
func NewFailureLog(webhookID uuid.UUID, event string, httpStatus int, deliveryErr error, duration time.Duration) *WebhookLog {
	log := &WebhookLog{
		BaseEntity: shared.NewBaseEntity(),
		WebhookID:  webhookID,
		Event:      event,
		Status:     DeliveryStatusFailed,
		HTTPStatus: httpStatus,
		DurationMs: duration.Milliseconds(),
	}
	if deliveryErr != nil {
		log.Error = deliveryErr.Error()
	}
	return log
}
