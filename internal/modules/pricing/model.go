// README: Client pricing rules and the auditable rate breakdown produced from them.
package pricing

import (
	"github.com/shopspring/decimal"
)

// FixedCharge is a named additive charge applied after the vehicle minimum.
type FixedCharge struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// RuleSet is a client's rules after merging over the system defaults.
// It is read-only once decoded.
type RuleSet struct {
	VehicleMinimums  map[string]decimal.Decimal `json:"vehicle_minimums"`
	FixedCharges     []FixedCharge              `json:"fixed_charges"`
	RoundingMultiple decimal.Decimal            `json:"rounding_multiple"`
	Currency         string                     `json:"currency"`
}

// MinimumFor returns the configured minimum for a vehicle type, zero when unknown.
func (r RuleSet) MinimumFor(vehicleType string) decimal.Decimal {
	if m, ok := r.VehicleMinimums[vehicleType]; ok {
		return m
	}
	return decimal.Zero
}

// Breakdown records every intermediate step of Postprocess.
type Breakdown struct {
	RawRate               decimal.Decimal
	AfterMinimum          decimal.Decimal
	AfterFixedCharges     decimal.Decimal
	FinalRate             decimal.Decimal
	VehicleMinimumApplied bool
	FixedCharges          []FixedCharge
	RoundedMultiple       decimal.Decimal
}
