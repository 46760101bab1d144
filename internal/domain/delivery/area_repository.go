package delivery

import (
	"context"

	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/shared"
)

// DeliveryAreaRepository defines the persistence interface for delivery areas
type DeliveryAreaRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*DeliveryArea, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]DeliveryArea, error)
	// FindActiveOrdered returns all active areas in ascending sort order,
	// ready for resolution
	FindActiveOrdered(ctx context.Context) ([]DeliveryArea, error)
	Save(ctx context.Context, area *DeliveryArea) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
