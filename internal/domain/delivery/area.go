package delivery

import (
	"time"

	"github.com/sabores/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DeliveryType determines how the delivery fee for an area is computed
type DeliveryType string

const (
	DeliveryTypeFlat     DeliveryType = "flat"
	DeliveryTypeFree     DeliveryType = "free"
	DeliveryTypeDistance DeliveryType = "distance"
)

// IsValid returns true for a known delivery type
func (t DeliveryType) IsValid() bool {
	switch t {
	case DeliveryTypeFlat, DeliveryTypeFree, DeliveryTypeDistance:
		return true
	}
	return false
}

// DeliveryArea is a named polygon with an associated delivery fee policy.
// Areas are evaluated in ascending SortOrder; the first active area that
// contains a delivery coordinate wins.
type DeliveryArea struct {
	shared.BaseAggregateRoot
	Name         string          `gorm:"type:varchar(100);not null"`
	Type         DeliveryType    `gorm:"type:varchar(20);not null;default:'flat'"`
	Fee          decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"` // flat fee, or base fee for distance type
	DistanceRate decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"` // per-km rate for distance type
	MinimumOrder decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Polygon      Polygon         `gorm:"type:jsonb;not null"`
	Active       bool            `gorm:"not null;default:true"`
	SortOrder    int             `gorm:"not null;default:0;index"`
}

// TableName returns the table name for GORM
func (DeliveryArea) TableName() string {
	return "delivery_areas"
}

// NewDeliveryArea creates a new delivery area, rejecting degenerate polygons
func NewDeliveryArea(name string, deliveryType DeliveryType, polygon Polygon) (*DeliveryArea, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Delivery area name cannot be empty")
	}
	if !deliveryType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DELIVERY_TYPE", "Unknown delivery type")
	}
	if err := polygon.Validate(); err != nil {
		return nil, err
	}

	return &DeliveryArea{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Type:              deliveryType,
		Fee:               decimal.Zero,
		DistanceRate:      decimal.Zero,
		MinimumOrder:      decimal.Zero,
		Polygon:           polygon,
		Active:            true,
	}, nil
}

// SetFees sets the fee policy for the area
func (a *DeliveryArea) SetFees(fee, distanceRate, minimumOrder decimal.Decimal) error {
	if fee.IsNegative() || distanceRate.IsNegative() || minimumOrder.IsNegative() {
		return shared.NewDomainError("INVALID_FEE", "Fees cannot be negative")
	}

	a.Fee = fee
	a.DistanceRate = distanceRate
	a.MinimumOrder = minimumOrder
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// SetPolygon replaces the area polygon
func (a *DeliveryArea) SetPolygon(polygon Polygon) error {
	if err := polygon.Validate(); err != nil {
		return err
	}

	a.Polygon = polygon
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// SetSortOrder sets the evaluation priority of the area
func (a *DeliveryArea) SetSortOrder(order int) {
	a.SortOrder = order
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// Activate marks the area as active
func (a *DeliveryArea) Activate() {
	a.Active = true
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// Deactivate removes the area from resolution without deleting it
func (a *DeliveryArea) Deactivate() {
	a.Active = false
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// Contains reports whether the area polygon contains the point
func (a *DeliveryArea) Contains(p Point) bool {
	return a.Polygon.Contains(p)
}

// FeeFor computes the delivery fee for a destination. The origin is the
// restaurant location and only matters for distance-based areas.
func (a *DeliveryArea) FeeFor(origin, destination Point) decimal.Decimal {
	switch a.Type {
	case DeliveryTypeFree:
		return decimal.Zero
	case DeliveryTypeDistance:
		km := decimal.NewFromFloat(origin.DistanceKm(destination))
		return a.Fee.Add(km.Mul(a.DistanceRate)).Round(2)
	default:
		return a.Fee
	}
}
