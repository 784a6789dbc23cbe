// README: Response bodies. Money goes out as JSON numbers rounded to cents.
package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"logit/internal/modules/pallets"
	"logit/internal/modules/pricing"
	"logit/internal/modules/quote"
)

func num(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

type fixedChargeDTO struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

func fixedChargesDTO(in []pricing.FixedCharge) []fixedChargeDTO {
	out := make([]fixedChargeDTO, 0, len(in))
	for _, fc := range in {
		out = append(out, fixedChargeDTO{Name: fc.Name, Amount: num(fc.Amount)})
	}
	return out
}

type rulesDTO struct {
	VehicleMinimums  map[string]float64 `json:"vehicle_minimums"`
	FixedCharges     []fixedChargeDTO   `json:"fixed_charges"`
	RoundingMultiple float64            `json:"rounding_multiple"`
	Currency         string             `json:"currency"`
}

func toRulesDTO(r pricing.RuleSet) rulesDTO {
	mins := make(map[string]float64, len(r.VehicleMinimums))
	for k, v := range r.VehicleMinimums {
		mins[k] = num(v)
	}
	return rulesDTO{
		VehicleMinimums:  mins,
		FixedCharges:     fixedChargesDTO(r.FixedCharges),
		RoundingMultiple: r.RoundingMultiple.InexactFloat64(),
		Currency:         r.Currency,
	}
}

type quoteDTO struct {
	QuoteID string `json:"quote_id"`
	Tenant  struct {
		ClientID string `json:"client_id"`
	} `json:"tenant"`
	Model struct {
		PredictedRateRaw float64    `json:"predicted_rate_aed_raw"`
		ConfInterval     [2]float64 `json:"conf_interval_aed_raw"`
		Version          string     `json:"version"`
		GeneratedAt      string     `json:"generated_at"`
	} `json:"model"`
	BusinessRules struct {
		VehicleMinimumApplied bool             `json:"vehicle_minimum_applied"`
		FixedCharges          []fixedChargeDTO `json:"fixed_charges"`
		RoundedTo             float64          `json:"rounded_to"`
	} `json:"business_rules"`
	Breakdown struct {
		RawRate           float64 `json:"raw_rate"`
		AfterMinimum      float64 `json:"after_minimum"`
		AfterFixedCharges float64 `json:"after_fixed_charges"`
		FinalRate         float64 `json:"final_rate_aed"`
	} `json:"breakdown"`
	Currency string           `json:"currency"`
	Pallets  *pallets.Summary `json:"pallets,omitempty"`
}

func toQuoteDTO(q quote.Quote) quoteDTO {
	var out quoteDTO
	out.QuoteID = q.ID.String()
	out.Tenant.ClientID = q.ClientID
	out.Model.PredictedRateRaw = num(q.Model.RawRate)
	out.Model.ConfInterval = [2]float64{num(q.Model.ConfLow), num(q.Model.ConfHigh)}
	out.Model.Version = q.Model.Version
	out.Model.GeneratedAt = q.Model.GeneratedAt.UTC().Format(time.RFC3339Nano)
	out.BusinessRules.VehicleMinimumApplied = q.Breakdown.VehicleMinimumApplied
	out.BusinessRules.FixedCharges = fixedChargesDTO(q.Breakdown.FixedCharges)
	out.BusinessRules.RoundedTo = q.Breakdown.RoundedMultiple.InexactFloat64()
	out.Breakdown.RawRate = num(q.Breakdown.RawRate)
	out.Breakdown.AfterMinimum = num(q.Breakdown.AfterMinimum)
	out.Breakdown.AfterFixedCharges = num(q.Breakdown.AfterFixedCharges)
	out.Breakdown.FinalRate = num(q.Final.Rounded())
	out.Currency = q.Final.Currency
	out.Pallets = q.Pallets
	return out
}
