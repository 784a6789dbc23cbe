// README: In-process toll index comparison; the grid index must reproduce brute-force matches exactly.
package main

import (
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"logit/internal/modules/tolls"
	"logit/internal/types"
)

// Centre of the synthetic network, roughly Dubai.
var benchCentre = types.Point{Lng: 55.27, Lat: 25.2}

type indexReport struct {
	Routes     int
	Matches    int
	BruteForce time.Duration
	Grid       time.Duration
	Mismatch   string
}

func syntheticGates(rng *rand.Rand, n int) []tolls.Gate {
	gates := make([]tolls.Gate, 0, n)
	for i := 0; i < n; i++ {
		gates = append(gates, tolls.Gate{
			ID: fmt.Sprintf("gate-%05d", i),
			Location: types.Point{
				Lng: benchCentre.Lng + (rng.Float64()-0.5)*0.6,
				Lat: benchCentre.Lat + (rng.Float64()-0.5)*0.6,
			},
			Fee: decimal.NewFromInt(int64(rng.Intn(5))),
		})
	}
	return gates
}

// syntheticRoute walks from a random start in small steps, like a decoded polyline.
func syntheticRoute(rng *rand.Rand, steps int) tolls.RoutePath {
	p := types.Point{
		Lng: benchCentre.Lng + (rng.Float64()-0.5)*0.5,
		Lat: benchCentre.Lat + (rng.Float64()-0.5)*0.5,
	}
	path := make(tolls.RoutePath, 0, steps)
	for i := 0; i < steps; i++ {
		path = append(path, p)
		p.Lng += (rng.Float64() - 0.3) * 0.001
		p.Lat += (rng.Float64() - 0.3) * 0.001
	}
	return path
}

func compareIndexes(seed int64, gateCount, routeCount int, radiusM float64) indexReport {
	rng := rand.New(rand.NewSource(seed))
	gates := syntheticGates(rng, gateCount)
	brute := tolls.NewCatalog(gates, tolls.WithBruteForce())
	grid := tolls.NewCatalog(gates)

	routes := make([]tolls.RoutePath, 0, routeCount)
	for i := 0; i < routeCount; i++ {
		routes = append(routes, syntheticRoute(rng, 400))
	}

	rep := indexReport{Routes: routeCount}
	want := make([]tolls.MatchResult, 0, routeCount)
	start := time.Now()
	for _, route := range routes {
		want = append(want, tolls.Match(route, brute, radiusM))
	}
	rep.BruteForce = time.Since(start)

	start = time.Now()
	got := make([]tolls.MatchResult, 0, routeCount)
	for _, route := range routes {
		got = append(got, tolls.Match(route, grid, radiusM))
	}
	rep.Grid = time.Since(start)

	for i := range want {
		rep.Matches += want[i].MatchedGateCount
		if want[i].MatchedGateCount != got[i].MatchedGateCount || !want[i].TotalFee.Equal(got[i].TotalFee) || !slices.Equal(want[i].GateIDs, got[i].GateIDs) {
			rep.Mismatch = fmt.Sprintf("route %d: brute=%v grid=%v", i, want[i].GateIDs, got[i].GateIDs)
			break
		}
	}
	return rep
}
