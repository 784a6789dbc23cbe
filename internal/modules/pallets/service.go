// README: Pallet volume, density and truck-position estimates.
package pallets

import (
	"math"

	"github.com/shopspring/decimal"

	"logit/internal/types"
)

// Per-pallet floor positions. Two stackable pallets share one position.
const (
	positionsPerPallet          = 1.0
	positionsPerStackablePallet = 0.5
)

// VolumeM3 converts centimetre dimensions to cubic metres for count pallets.
func VolumeM3(d Dimensions, count int) float64 {
	return d.LengthCm * d.WidthCm * d.HeightCm / 1e6 * float64(count)
}

// DensityKgM3 returns weight per cubic metre. ok is false when the volume is
// not positive.
func DensityKgM3(weightKg, volumeM3 float64) (float64, bool) {
	if volumeM3 <= 0 {
		return 0, false
	}
	return weightKg / volumeM3, true
}

// Positions estimates the floor positions count pallets occupy, rounding up.
func Positions(count int, stackable bool) int {
	per := positionsPerPallet
	if stackable {
		per = positionsPerStackablePallet
	}
	return int(float64(count)*per + 0.999)
}

// Summarize validates info and reports volume (3dp), density (1dp) and
// positions for a shipment of weightKg.
func Summarize(weightKg float64, info Info) (Summary, error) {
	if info.Count <= 0 {
		return Summary{}, types.NewValidationError("pallets.count", "must be greater than 0")
	}
	if !positiveFinite(info.Dimensions.LengthCm) {
		return Summary{}, types.NewValidationError("pallets.dimensions_cm.length_cm", "must be greater than 0")
	}
	if !positiveFinite(info.Dimensions.WidthCm) {
		return Summary{}, types.NewValidationError("pallets.dimensions_cm.width_cm", "must be greater than 0")
	}
	if !positiveFinite(info.Dimensions.HeightCm) {
		return Summary{}, types.NewValidationError("pallets.dimensions_cm.height_cm", "must be greater than 0")
	}
	if weightKg < 0 || math.IsNaN(weightKg) || math.IsInf(weightKg, 0) {
		return Summary{}, types.NewValidationError("weight_kg", "must be a non-negative number")
	}

	vol := VolumeM3(info.Dimensions, info.Count)
	out := Summary{
		VolumeM3:        roundTo(vol, 3),
		PalletPositions: Positions(info.Count, info.Stackable),
	}
	if dens, ok := DensityKgM3(weightKg, vol); ok {
		v := roundTo(dens, 1)
		out.DensityKgM3 = &v
	}
	return out, nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func roundTo(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
