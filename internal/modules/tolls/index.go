// README: Spatial indexes answering "which gates lie within r metres of p".
package tolls

import (
	"math"

	"logit/internal/types"
)

// DefaultGridCellDeg is roughly 1.1 km of latitude per cell.
const DefaultGridCellDeg = 0.01

// SpatialIndex returns every gate within radiusM metres (haversine) of p.
// Implementations must agree exactly with BruteForceIndex.
type SpatialIndex interface {
	Nearby(p types.Point, radiusM float64) []Gate
}

// BruteForceIndex measures the distance to every gate.
type BruteForceIndex struct {
	gates []Gate
}

func NewBruteForceIndex(gates []Gate) *BruteForceIndex {
	return &BruteForceIndex{gates: gates}
}

func (b *BruteForceIndex) Nearby(p types.Point, radiusM float64) []Gate {
	var out []Gate
	for _, g := range b.gates {
		if HaversineMeters(g.Location, p) <= radiusM {
			out = append(out, g)
		}
	}
	return out
}

type cellKey struct {
	lat, lng int64
}

// GridIndex buckets gates into square lat/lng cells. A query only measures
// gates in the cells overlapping the radius' bounding window; windows that
// reach a pole or the antimeridian fall back to a full scan.
type GridIndex struct {
	cellDeg float64
	cells   map[cellKey][]Gate
	all     *BruteForceIndex
}

func NewGridIndex(gates []Gate, cellDeg float64) *GridIndex {
	if cellDeg <= 0 || math.IsNaN(cellDeg) {
		cellDeg = DefaultGridCellDeg
	}
	g := &GridIndex{
		cellDeg: cellDeg,
		cells:   make(map[cellKey][]Gate),
		all:     NewBruteForceIndex(gates),
	}
	for _, gate := range gates {
		k := g.key(gate.Location.Lat, gate.Location.Lng)
		g.cells[k] = append(g.cells[k], gate)
	}
	return g
}

func (g *GridIndex) key(lat, lng float64) cellKey {
	return cellKey{
		lat: int64(math.Floor(lat / g.cellDeg)),
		lng: int64(math.Floor(lng / g.cellDeg)),
	}
}

func (g *GridIndex) Nearby(p types.Point, radiusM float64) []Gate {
	if !p.Valid() || math.IsNaN(radiusM) || radiusM < 0 {
		return nil
	}

	// Any point within radiusM differs in latitude by at most this angle.
	dLat := radiansToDegrees(radiusM / earthRadiusM)
	latMin, latMax := p.Lat-dLat, p.Lat+dLat
	if latMin <= -90 || latMax >= 90 {
		return g.all.Nearby(p, radiusM)
	}

	// sin(dLng/2) <= sin(r/2R) / cos(maxAbsLat) bounds the longitude spread.
	maxAbsLat := math.Max(math.Abs(latMin), math.Abs(latMax))
	s := math.Sin(radiusM/(2*earthRadiusM)) / math.Cos(degreesToRadians(maxAbsLat))
	if s >= 1 {
		return g.all.Nearby(p, radiusM)
	}
	dLng := radiansToDegrees(2 * math.Asin(s))
	lngMin, lngMax := p.Lng-dLng, p.Lng+dLng
	if lngMin <= -180 || lngMax >= 180 {
		return g.all.Nearby(p, radiusM)
	}

	// One extra ring of cells absorbs floating point error at cell edges.
	lo := g.key(latMin, lngMin)
	hi := g.key(latMax, lngMax)
	var out []Gate
	for i := lo.lat - 1; i <= hi.lat+1; i++ {
		for j := lo.lng - 1; j <= hi.lng+1; j++ {
			for _, gate := range g.cells[cellKey{lat: i, lng: j}] {
				if HaversineMeters(gate.Location, p) <= radiusM {
					out = append(out, gate)
				}
			}
		}
	}
	return out
}
