// README: Toll gates, the read-only gate catalog and match results.
package tolls

import (
	"github.com/shopspring/decimal"

	"logit/internal/types"
)

// DefaultRadiusMeters is how close a route point must come to a gate for
// the gate to count as passed.
const DefaultRadiusMeters = 60.0

// RoutePath is an origin-to-destination sequence of points. Consecutive
// duplicates are allowed.
type RoutePath []types.Point

type Gate struct {
	ID       string
	Location types.Point
	Fee      decimal.Decimal
}

// MatchResult counts every matched gate once. GateIDs is sorted.
type MatchResult struct {
	MatchedGateCount int
	TotalFee         decimal.Decimal
	GateIDs          []string
}

// Catalog is an immutable set of gates keyed by ID. Build a new catalog
// instead of changing one that readers may hold.
type Catalog struct {
	gates []Gate
	byID  map[string]int
	index SpatialIndex
}

type catalogOptions struct {
	gridCellDeg float64
	bruteForce  bool
}

type CatalogOption func(*catalogOptions)

// WithBruteForce makes the catalog scan every gate for every route point.
func WithBruteForce() CatalogOption {
	return func(o *catalogOptions) { o.bruteForce = true }
}

// WithGridCell sets the grid index cell size in degrees.
func WithGridCell(deg float64) CatalogOption {
	return func(o *catalogOptions) { o.gridCellDeg = deg }
}

// NewCatalog copies gates into a catalog. When two gates share an ID the
// first one wins.
func NewCatalog(gates []Gate, opts ...CatalogOption) *Catalog {
	o := catalogOptions{gridCellDeg: DefaultGridCellDeg}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Catalog{
		gates: make([]Gate, 0, len(gates)),
		byID:  make(map[string]int, len(gates)),
	}
	for _, g := range gates {
		if _, dup := c.byID[g.ID]; dup {
			continue
		}
		c.byID[g.ID] = len(c.gates)
		c.gates = append(c.gates, g)
	}

	if o.bruteForce {
		c.index = NewBruteForceIndex(c.gates)
	} else {
		c.index = NewGridIndex(c.gates, o.gridCellDeg)
	}
	return c
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.gates)
}

func (c *Catalog) Gate(id string) (Gate, bool) {
	if c == nil {
		return Gate{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return Gate{}, false
	}
	return c.gates[i], true
}

// Gates returns a copy of the catalog's gates in load order.
func (c *Catalog) Gates() []Gate {
	if c == nil {
		return nil
	}
	out := make([]Gate, len(c.gates))
	copy(out, c.gates)
	return out
}
