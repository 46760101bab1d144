package delivery

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/delivery"
	"github.com/sabores/backend/internal/domain/shared"
	"github.com/sabores/backend/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
)

// PointRequest is one polygon vertex
type PointRequest struct {
	Lat float64 `json:"lat" binding:"required"`
	Lng float64 `json:"lng" binding:"required"`
}

// AreaRequest is the payload for creating or updating a delivery area
type AreaRequest struct {
	Name         string          `json:"name" binding:"required,max=100"`
	Type         string          `json:"type" binding:"required"`
	Fee          decimal.Decimal `json:"fee"`
	DistanceRate decimal.Decimal `json:"distance_rate"`
	MinimumOrder decimal.Decimal `json:"minimum_order"`
	Polygon      []PointRequest  `json:"polygon" binding:"required,min=3"`
	Active       bool            `json:"active"`
	SortOrder    int             `json:"sort_order"`
}

// AreaResponse is the delivery area representation
type AreaResponse struct {
	ID           uuid.UUID             `json:"id"`
	Name         string                `json:"name"`
	Type         delivery.DeliveryType `json:"type"`
	Fee          decimal.Decimal       `json:"fee"`
	DistanceRate decimal.Decimal       `json:"distance_rate"`
	MinimumOrder decimal.Decimal       `json:"minimum_order"`
	Polygon      delivery.Polygon      `json:"polygon"`
	Active       bool                  `json:"active"`
	SortOrder    int                   `json:"sort_order"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// ToAreaResponse converts a delivery area to its response shape
func ToAreaResponse(a *delivery.DeliveryArea) AreaResponse {
	return AreaResponse{
		ID:           a.ID,
		Name:         a.Name,
		Type:         a.Type,
		Fee:          a.Fee,
		DistanceRate: a.DistanceRate,
		MinimumOrder: a.MinimumOrder,
		Polygon:      a.Polygon,
		Active:       a.Active,
		SortOrder:    a.SortOrder,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// AreaService handles delivery area administration
type AreaService struct {
	areas delivery.DeliveryAreaRepository
	cache cache.Store
}

// NewAreaService creates a new AreaService
func NewAreaService(areas delivery.DeliveryAreaRepository, store cache.Store) *AreaService {
	return &AreaService{areas: areas, cache: store}
}

// Create creates a delivery area
func (s *AreaService) Create(ctx context.Context, req AreaRequest) (*AreaResponse, error) {
	area, err := delivery.NewDeliveryArea(req.Name, delivery.DeliveryType(req.Type), toPolygon(req.Polygon))
	if err != nil {
		return nil, err
	}
	if err := area.SetFees(req.Fee, req.DistanceRate, req.MinimumOrder); err != nil {
		return nil, err
	}
	area.SetSortOrder(req.SortOrder)
	if !req.Active {
		area.Deactivate()
	}

	if err := s.areas.Save(ctx, area); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	resp := ToAreaResponse(area)
	return &resp, nil
}

// Update replaces a delivery area's configuration
func (s *AreaService) Update(ctx context.Context, id uuid.UUID, req AreaRequest) (*AreaResponse, error) {
	area, err := s.areas.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	deliveryType := delivery.DeliveryType(req.Type)
	if !deliveryType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DELIVERY_TYPE", "Unknown delivery type")
	}

	if err := area.SetPolygon(toPolygon(req.Polygon)); err != nil {
		return nil, err
	}
	if err := area.SetFees(req.Fee, req.DistanceRate, req.MinimumOrder); err != nil {
		return nil, err
	}
	area.Name = req.Name
	area.Type = deliveryType
	area.SetSortOrder(req.SortOrder)
	if req.Active {
		area.Activate()
	} else {
		area.Deactivate()
	}

	if err := s.areas.Save(ctx, area); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	resp := ToAreaResponse(area)
	return &resp, nil
}

// List retrieves all delivery areas
func (s *AreaService) List(ctx context.Context, filter shared.Filter) ([]AreaResponse, error) {
	if filter.OrderBy == "" {
		filter.OrderBy = "sort_order"
		filter.OrderDir = "asc"
	}

	areas, err := s.areas.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]AreaResponse, len(areas))
	for i := range areas {
		items[i] = ToAreaResponse(&areas[i])
	}
	return items, nil
}

// GetByID retrieves one delivery area
func (s *AreaService) GetByID(ctx context.Context, id uuid.UUID) (*AreaResponse, error) {
	area, err := s.areas.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToAreaResponse(area)
	return &resp, nil
}

// Delete removes a delivery area
func (s *AreaService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.areas.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *AreaService) invalidate(ctx context.Context) {
	_ = s.cache.Delete(ctx, cache.KeyStorefrontSettings)
}

func toPolygon(points []PointRequest) delivery.Polygon {
	polygon := make(delivery.Polygon, len(points))
	for i, p := range points {
		polygon[i] = delivery.Point{Lat: p.Lat, Lng: p.Lng}
	}
	return polygon
}
