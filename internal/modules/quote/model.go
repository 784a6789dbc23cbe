// README: Freight quote request and the issued quote with its full audit trail.
package quote

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"logit/internal/modules/pallets"
	"logit/internal/modules/pricing"
	"logit/internal/types"
)

// FreightRequest is the feature vector the rate model is trained on, plus an
// optional pallet description.
type FreightRequest struct {
	ClientType           string        `json:"client_type" validate:"required"`
	Origin               string        `json:"origin" validate:"required"`
	Destination          string        `json:"destination" validate:"required"`
	DistanceKm           float64       `json:"distance_km" validate:"gt=0"`
	LoadType             string        `json:"load_type" validate:"required"`
	LoadWeightTons       float64       `json:"load_weight_tons" validate:"gt=0"`
	VehicleType          string        `json:"vehicle_type" validate:"required"`
	FuelPriceAEDPerLitre float64       `json:"fuel_price_aed_per_litre" validate:"gt=0"`
	SalikGates           int           `json:"salik_gates" validate:"gte=0"`
	SalikChargesAED      float64       `json:"salik_charges_aed" validate:"gte=0"`
	CustomsFeesAED       float64       `json:"customs_fees_aed" validate:"gte=0"`
	WaitingTimeHours     float64       `json:"waiting_time_hours" validate:"gte=0"`
	ContractType         string        `json:"contract_type" validate:"required"`
	BackhaulAvailable    int           `json:"backhaul_available" validate:"oneof=0 1"`
	Month                int           `json:"month" validate:"min=1,max=12"`
	Season               string        `json:"season" validate:"required"`
	Weather              string        `json:"weather" validate:"required"`
	PeakDemandFactor     float64       `json:"peak_demand_factor" validate:"gt=0"`
	Pallets              *pallets.Info `json:"pallets,omitempty"`
}

// ModelOutput is what the rate model said before any client rule ran.
type ModelOutput struct {
	RawRate     decimal.Decimal
	ConfLow     decimal.Decimal
	ConfHigh    decimal.Decimal
	Version     string
	GeneratedAt time.Time
}

type Quote struct {
	ID        uuid.UUID
	ClientID  string
	Model     ModelOutput
	Rules     pricing.RuleSet
	Breakdown pricing.Breakdown
	Final     types.Money
	Pallets   *pallets.Summary
}
