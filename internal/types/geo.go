// README: Geographic value objects (WGS-84 degrees, no altitude).
package types

import "math"

// Point is a (longitude, latitude) pair. Longitude comes first to match the
// GeoJSON coordinate order used by the toll catalog and decoded route paths.
type Point struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Valid reports whether p is a finite coordinate inside the WGS-84 range.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lng) || math.IsNaN(p.Lat) || math.IsInf(p.Lng, 0) || math.IsInf(p.Lat, 0) {
		return false
	}
	return p.Lng >= -180 && p.Lng <= 180 && p.Lat >= -90 && p.Lat <= 90
}
