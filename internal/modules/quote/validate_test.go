package quote

import (
	"errors"
	"testing"

	"logit/internal/types"
)

func TestFreightRequestValidate(t *testing.T) {
	if err := validRequest().Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*FreightRequest)
		field  string
	}{
		{"zero distance", func(r *FreightRequest) { r.DistanceKm = 0 }, "distance_km"},
		{"negative weight", func(r *FreightRequest) { r.LoadWeightTons = -1 }, "load_weight_tons"},
		{"missing vehicle", func(r *FreightRequest) { r.VehicleType = "" }, "vehicle_type"},
		{"zero fuel price", func(r *FreightRequest) { r.FuelPriceAEDPerLitre = 0 }, "fuel_price_aed_per_litre"},
		{"negative gates", func(r *FreightRequest) { r.SalikGates = -1 }, "salik_gates"},
		{"negative customs", func(r *FreightRequest) { r.CustomsFeesAED = -0.01 }, "customs_fees_aed"},
		{"backhaul out of range", func(r *FreightRequest) { r.BackhaulAvailable = 2 }, "backhaul_available"},
		{"month zero", func(r *FreightRequest) { r.Month = 0 }, "month"},
		{"month thirteen", func(r *FreightRequest) { r.Month = 13 }, "month"},
		{"zero peak factor", func(r *FreightRequest) { r.PeakDemandFactor = 0 }, "peak_demand_factor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			err := req.Validate()
			var ve *types.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Fatalf("expected field %s, got %s (%v)", tt.field, ve.Field, err)
			}
		})
	}
}
