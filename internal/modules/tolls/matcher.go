// README: Toll matching of a route path against a gate catalog.
package tolls

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Match reports which catalog gates the route passes within radiusM metres
// of. A gate counts once however many route points are near it. Only route
// vertices are tested, not the segments between them, so a sparse path can
// miss a gate that sits mid-segment. A non-positive radius means
// DefaultRadiusMeters.
func Match(route RoutePath, catalog *Catalog, radiusM float64) MatchResult {
	if len(route) == 0 || catalog.Len() == 0 {
		return MatchResult{TotalFee: decimal.Zero, GateIDs: []string{}}
	}
	if radiusM <= 0 {
		radiusM = DefaultRadiusMeters
	}

	seen := make(map[string]struct{})
	total := decimal.Zero
	for _, p := range route {
		for _, g := range catalog.index.Nearby(p, radiusM) {
			if _, ok := seen[g.ID]; ok {
				continue
			}
			seen[g.ID] = struct{}{}
			total = total.Add(g.Fee)
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return MatchResult{
		MatchedGateCount: len(seen),
		TotalFee:         total,
		GateIDs:          ids,
	}
}
