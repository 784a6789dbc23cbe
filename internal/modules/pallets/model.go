// README: Pallet load description and the derived volume/density/positions summary.
package pallets

type Dimensions struct {
	LengthCm float64 `json:"length_cm"`
	WidthCm  float64 `json:"width_cm"`
	HeightCm float64 `json:"height_cm"`
}

type Info struct {
	Count      int        `json:"count"`
	Dimensions Dimensions `json:"dimensions_cm"`
	Stackable  bool       `json:"stackable"`
}

// Summary is what a quote reports about its pallets. DensityKgM3 is nil
// when the volume is zero.
type Summary struct {
	VolumeM3        float64  `json:"volume_m3"`
	DensityKgM3     *float64 `json:"density_kg_m3"`
	PalletPositions int      `json:"pallet_positions"`
}
