package delivery

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"

	"github.com/sabores/backend/internal/domain/shared"
)

// boundaryEpsilon is the tolerance used when deciding whether a point lies
// exactly on a polygon edge. Coordinates are decimal degrees, so this is
// roughly a centimeter at the equator.
const boundaryEpsilon = 1e-9

// Polygon is an ordered list of geographic vertices. It is persisted as a
// JSON array and validated when decoded from the database or an API request.
type Polygon []Point

// Validate checks that the polygon describes a usable region.
// A polygon with fewer than 3 vertices is degenerate and rejected.
func (pg Polygon) Validate() error {
	if len(pg) < 3 {
		return shared.NewDomainError("INVALID_POLYGON", "Delivery area polygon needs at least 3 vertices")
	}
	for _, v := range pg {
		if v.Lat < -90 || v.Lat > 90 || v.Lng < -180 || v.Lng > 180 {
			return shared.NewDomainError("INVALID_POLYGON", "Polygon vertex is outside valid coordinate range")
		}
	}
	return nil
}

// Contains reports whether the point lies inside the polygon using a
// ray-casting test. A point exactly on an edge or vertex counts as inside.
func (pg Polygon) Contains(p Point) bool {
	if len(pg) < 3 {
		return false
	}

	// Boundary check first so edge points are deterministic regardless of
	// the crossing parity below.
	for i := range pg {
		a := pg[i]
		b := pg[(i+1)%len(pg)]
		if onSegment(p, a, b) {
			return true
		}
	}

	inside := false
	j := len(pg) - 1
	for i := 0; i < len(pg); i++ {
		vi, vj := pg[i], pg[j]
		if (vi.Lat > p.Lat) != (vj.Lat > p.Lat) {
			crossLng := (vj.Lng-vi.Lng)*(p.Lat-vi.Lat)/(vj.Lat-vi.Lat) + vi.Lng
			if p.Lng < crossLng {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// onSegment reports whether p lies on the segment [a, b] within tolerance
func onSegment(p, a, b Point) bool {
	cross := (b.Lat-a.Lat)*(p.Lng-a.Lng) - (b.Lng-a.Lng)*(p.Lat-a.Lat)
	if math.Abs(cross) > boundaryEpsilon {
		return false
	}
	if p.Lat < math.Min(a.Lat, b.Lat)-boundaryEpsilon || p.Lat > math.Max(a.Lat, b.Lat)+boundaryEpsilon {
		return false
	}
	if p.Lng < math.Min(a.Lng, b.Lng)-boundaryEpsilon || p.Lng > math.Max(a.Lng, b.Lng)+boundaryEpsilon {
		return false
	}
	return true
}

// Value implements driver.Valuer so GORM stores the polygon as JSON
func (pg Polygon) Value() (driver.Value, error) {
	return json.Marshal(pg)
}

// Scan implements sql.Scanner with a validating decode
func (pg *Polygon) Scan(value interface{}) error {
	if value == nil {
		*pg = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported polygon column type %T", value)
	}

	var decoded Polygon
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("failed to decode polygon: %w", err)
	}
	*pg = decoded
	return nil
}
