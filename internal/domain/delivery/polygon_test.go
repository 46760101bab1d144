package delivery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// square around (38.8, -9.0), one degree on each side
func squarePolygon() Polygon {
	return Polygon{
		{Lat: 38.3, Lng: -9.5},
		{Lat: 38.3, Lng: -8.5},
		{Lat: 39.3, Lng: -8.5},
		{Lat: 39.3, Lng: -9.5},
	}
}

func TestPolygonValidate(t *testing.T) {
	t.Run("accepts polygon with 3 or more vertices", func(t *testing.T) {
		assert.NoError(t, squarePolygon().Validate())
		assert.NoError(t, Polygon{{0, 0}, {1, 0}, {1, 1}}.Validate())
	})

	t.Run("rejects degenerate polygon", func(t *testing.T) {
		err := Polygon{{0, 0}, {1, 1}}.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 3 vertices")
	})

	t.Run("rejects out-of-range coordinates", func(t *testing.T) {
		err := Polygon{{91, 0}, {1, 0}, {1, 1}}.Validate()
		require.Error(t, err)
	})
}

func TestPolygonContains(t *testing.T) {
	square := squarePolygon()

	t.Run("point inside square", func(t *testing.T) {
		assert.True(t, square.Contains(Point{Lat: 38.8, Lng: -9.0}))
	})

	t.Run("point outside square", func(t *testing.T) {
		assert.False(t, square.Contains(Point{Lat: 40.0, Lng: -9.0}))
		assert.False(t, square.Contains(Point{Lat: 38.8, Lng: -7.0}))
	})

	t.Run("point on edge counts as inside", func(t *testing.T) {
		assert.True(t, square.Contains(Point{Lat: 38.3, Lng: -9.0}))
		assert.True(t, square.Contains(Point{Lat: 38.8, Lng: -9.5}))
	})

	t.Run("vertex counts as inside", func(t *testing.T) {
		assert.True(t, square.Contains(Point{Lat: 38.3, Lng: -9.5}))
	})

	t.Run("concave polygon", func(t *testing.T) {
		// U-shape: the notch between the arms is outside
		u := Polygon{
			{Lat: 0, Lng: 0},
			{Lat: 0, Lng: 6},
			{Lat: 4, Lng: 6},
			{Lat: 4, Lng: 4},
			{Lat: 1, Lng: 4},
			{Lat: 1, Lng: 2},
			{Lat: 4, Lng: 2},
			{Lat: 4, Lng: 0},
		}
		assert.True(t, u.Contains(Point{Lat: 0.5, Lng: 3}))
		assert.False(t, u.Contains(Point{Lat: 3, Lng: 3}))
		assert.True(t, u.Contains(Point{Lat: 3, Lng: 1}))
		assert.True(t, u.Contains(Point{Lat: 3, Lng: 5}))
	})

	t.Run("degenerate polygon contains nothing", func(t *testing.T) {
		assert.False(t, Polygon{{0, 0}, {1, 1}}.Contains(Point{Lat: 0.5, Lng: 0.5}))
	})
}

func TestPolygonScanValue(t *testing.T) {
	t.Run("round trip through database value", func(t *testing.T) {
		original := squarePolygon()

		value, err := original.Value()
		require.NoError(t, err)

		var decoded Polygon
		require.NoError(t, decoded.Scan(value))
		assert.Equal(t, original, decoded)
	})

	t.Run("scan rejects malformed json", func(t *testing.T) {
		var pg Polygon
		assert.Error(t, pg.Scan([]byte("{not json")))
	})

	t.Run("scan accepts nil", func(t *testing.T) {
		var pg Polygon
		require.NoError(t, pg.Scan(nil))
		assert.Nil(t, pg)
	})
}

func TestDistanceKm(t *testing.T) {
	// Lisbon to Porto is roughly 274 km great-circle
	lisbon := Point{Lat: 38.7223, Lng: -9.1393}
	porto := Point{Lat: 41.1579, Lng: -8.6291}

	d := lisbon.DistanceKm(porto)
	assert.InDelta(t, 274, d, 5)

	assert.InDelta(t, 0, lisbon.DistanceKm(lisbon), 1e-9)
}
