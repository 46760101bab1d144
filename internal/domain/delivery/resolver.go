package delivery

import (
	"sort"

	"github.com/sabores/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ErrNoCoverage is returned when no active delivery area contains a point
var ErrNoCoverage = shared.NewDomainError("NO_COVERAGE", "Address is outside all delivery areas")

// Resolution is the outcome of resolving a delivery coordinate
type Resolution struct {
	Area         *DeliveryArea
	Fee          decimal.Decimal
	MinimumOrder decimal.Decimal
}

// Resolve finds the first active area containing the point. Areas are
// evaluated in ascending sort order; overlaps beyond ordering are not
// resolved further.
func Resolve(areas []DeliveryArea, origin, point Point) (*Resolution, error) {
	sorted := make([]DeliveryArea, len(areas))
	copy(sorted, areas)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SortOrder < sorted[j].SortOrder
	})

	for i := range sorted {
		area := &sorted[i]
		if !area.Active {
			continue
		}
		if area.Contains(point) {
			return &Resolution{
				Area:         area,
				Fee:          area.FeeFor(origin, point),
				MinimumOrder: area.MinimumOrder,
			}, nil
		}
	}

	return nil, ErrNoCoverage
}
