// README: Pricing service resolves client rules and post-processes raw model rates.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"logit/internal/types"
)

// ErrRulesNotFound is returned by a RuleStore when a client has no document.
var ErrRulesNotFound = errors.New("pricing rules not found")

// RuleStore returns the raw rule document stored for a client.
type RuleStore interface {
	Get(ctx context.Context, clientID string) (map[string]any, error)
}

// Postprocess turns a raw model rate into the final quoted rate. The steps
// run in a fixed order: vehicle minimum, fixed charges, rounding.
func Postprocess(rawRate decimal.Decimal, vehicleType string, rules RuleSet) (Breakdown, error) {
	if rawRate.IsNegative() {
		return Breakdown{}, types.NewValidationError("raw_rate", "must be non-negative")
	}
	if strings.TrimSpace(vehicleType) == "" && len(rules.VehicleMinimums) > 0 {
		return Breakdown{}, types.NewValidationError("vehicle_type", "required to look up the vehicle minimum")
	}

	afterMinimum := decimal.Max(rawRate, rules.MinimumFor(vehicleType))

	afterFixed := afterMinimum
	charges := make([]FixedCharge, 0, len(rules.FixedCharges))
	for _, fc := range rules.FixedCharges {
		afterFixed = afterFixed.Add(fc.Amount)
		charges = append(charges, fc)
	}

	final := RoundToMultiple(afterFixed, rules.RoundingMultiple)

	return Breakdown{
		RawRate:               rawRate,
		AfterMinimum:          afterMinimum.Round(2),
		AfterFixedCharges:     afterFixed.Round(2),
		FinalRate:             final.Round(2),
		VehicleMinimumApplied: afterMinimum.GreaterThan(rawRate),
		FixedCharges:          charges,
		RoundedMultiple:       rules.RoundingMultiple,
	}, nil
}

// RoundToMultiple rounds x to the nearest multiple of m, halves away from
// zero (half up for the non-negative rates handled here). A non-positive m
// disables rounding.
func RoundToMultiple(x, m decimal.Decimal) decimal.Decimal {
	if !m.IsPositive() {
		return x
	}
	return x.Div(m).Round(0).Mul(m)
}

type Service struct {
	store    RuleStore
	defaults map[string]any
	logger   *zap.Logger
}

// NewService builds a Service. A nil store serves the defaults to every
// client; nil defaults fall back to DefaultDocument.
func NewService(store RuleStore, defaults map[string]any, logger *zap.Logger) *Service {
	if defaults == nil {
		defaults = DefaultDocument()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, defaults: defaults, logger: logger}
}

// RulesForClient returns the client's document merged over the defaults.
// A missing document yields the defaults; a malformed one is rejected.
func (s *Service) RulesForClient(ctx context.Context, clientID string) (RuleSet, error) {
	if strings.TrimSpace(clientID) == "" {
		return RuleSet{}, types.NewValidationError("client_id", "must not be empty")
	}

	var doc map[string]any
	if s.store != nil {
		d, err := s.store.Get(ctx, clientID)
		switch {
		case errors.Is(err, ErrRulesNotFound):
			s.logger.Debug("no client rules, using defaults", zap.String("client_id", clientID))
		case err != nil:
			return RuleSet{}, fmt.Errorf("loading rules for client %s: %w", clientID, err)
		default:
			doc = d
		}
	}

	rs, err := DecodeRuleSet(clientID, Merge(s.defaults, doc))
	if err != nil {
		s.logger.Warn("rejecting malformed client rules", zap.String("client_id", clientID), zap.Error(err))
		return RuleSet{}, err
	}
	return rs, nil
}

// Apply resolves the client's rules and post-processes rawRate with them.
func (s *Service) Apply(ctx context.Context, clientID string, rawRate decimal.Decimal, vehicleType string) (Breakdown, RuleSet, error) {
	rules, err := s.RulesForClient(ctx, clientID)
	if err != nil {
		return Breakdown{}, RuleSet{}, err
	}
	bd, err := Postprocess(rawRate, vehicleType, rules)
	if err != nil {
		return Breakdown{}, RuleSet{}, err
	}
	return bd, rules, nil
}
