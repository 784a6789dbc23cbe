// README: Route features derived from a driving route (distance, duration, tolls).
package route

import "github.com/shopspring/decimal"

// Features is what the quote form needs from a route. TollChargesAED is the
// sum of each matched gate's fee, counted once per gate.
type Features struct {
	Origin         string
	Destination    string
	DistanceKm     float64
	DurationMin    float64
	TollGates      int
	TollChargesAED decimal.Decimal
	TollGateIDs    []string
	Polyline       string
}
