package quote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logit/internal/events"
	"logit/internal/modules/pallets"
	"logit/internal/modules/pricing"
	"logit/internal/types"
)

const acmeRules = `{
	"vehicle_minimums": {"7t_truck": 300, "3t_pickup": 180},
	"fixed_charges": [{"name": "documentation", "amount": 15}],
	"rounding_multiple": 5
}`

func newTestService(pred Predictor, pub events.Publisher) *Service {
	rules := pricing.NewService(docStore{"acme": acmeRules}, nil, nil)
	fixed := time.Date(2025, 8, 14, 9, 30, 0, 0, time.UTC)
	return NewService(pred, rules, "freight_rf_v1", nil,
		WithPublisher(pub),
		WithClock(func() time.Time { return fixed }),
	)
}

func TestQuoteAppliesClientRules(t *testing.T) {
	pub := &recordingPublisher{}
	s := newTestService(fakePredictor{rate: 249.996}, pub)

	q, err := s.Quote(context.Background(), "acme", validRequest())
	require.NoError(t, err)

	assert.Equal(t, "acme", q.ClientID)
	assert.Equal(t, "250", q.Model.RawRate.String())
	assert.Equal(t, "235", q.Model.ConfLow.String())
	assert.Equal(t, "265", q.Model.ConfHigh.String())
	assert.Equal(t, "freight_rf_v1", q.Model.Version)
	assert.Equal(t, time.Date(2025, 8, 14, 9, 30, 0, 0, time.UTC), q.Model.GeneratedAt)

	assert.True(t, q.Breakdown.VehicleMinimumApplied)
	assert.Equal(t, "300", q.Breakdown.AfterMinimum.String())
	assert.Equal(t, "315", q.Breakdown.AfterFixedCharges.String())
	assert.Equal(t, "315", q.Breakdown.FinalRate.String())
	assert.Equal(t, "315.00 AED", q.Final.String())
	assert.Nil(t, q.Pallets)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.QuoteIssued, pub.events[0].Type)
	assert.Equal(t, "acme", pub.keys[0])
	var evt events.QuoteIssuedEvent
	require.NoError(t, pub.events[0].ParseData(&evt))
	assert.Equal(t, q.ID.String(), evt.QuoteID)
	assert.Equal(t, "315.00", evt.FinalRate)
}

func TestQuoteDefaultsForUnknownClient(t *testing.T) {
	s := newTestService(fakePredictor{rate: 412.345}, &recordingPublisher{})

	q, err := s.Quote(context.Background(), "globex", validRequest())
	require.NoError(t, err)
	assert.False(t, q.Breakdown.VehicleMinimumApplied)
	assert.True(t, q.Breakdown.FinalRate.Equal(decimal.RequireFromString("412.35")), q.Breakdown.FinalRate.String())
	assert.Equal(t, types.DefaultCurrency, q.Final.Currency)
}

func TestQuoteWithPallets(t *testing.T) {
	req := validRequest()
	req.Pallets = &pallets.Info{Count: 4, Dimensions: pallets.Dimensions{LengthCm: 120, WidthCm: 80, HeightCm: 144}, Stackable: true}

	q, err := newTestService(fakePredictor{rate: 500}, nil).Quote(context.Background(), "acme", req)
	require.NoError(t, err)
	require.NotNil(t, q.Pallets)
	assert.Equal(t, 5.53, q.Pallets.VolumeM3)
	assert.Equal(t, 2, q.Pallets.PalletPositions)
}

func TestQuoteErrors(t *testing.T) {
	invalid := validRequest()
	invalid.Month = 13

	badPallets := validRequest()
	badPallets.Pallets = &pallets.Info{Count: 0}

	tests := []struct {
		name      string
		predictor Predictor
		req       FreightRequest
		check     func(t *testing.T, err error)
	}{
		{"invalid request", fakePredictor{rate: 100}, invalid, func(t *testing.T, err error) {
			var ve *types.ValidationError
			assert.True(t, errors.As(err, &ve))
		}},
		{"invalid pallets", fakePredictor{rate: 100}, badPallets, func(t *testing.T, err error) {
			var ve *types.ValidationError
			assert.True(t, errors.As(err, &ve))
		}},
		{"predictor down", fakePredictor{err: ErrPredictorUnavailable}, validRequest(), func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrPredictorUnavailable)
		}},
		{"negative prediction", fakePredictor{rate: -1}, validRequest(), func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrInvalidPrediction)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &recordingPublisher{}
			_, err := newTestService(tt.predictor, pub).Quote(context.Background(), "acme", tt.req)
			require.Error(t, err)
			tt.check(t, err)
			assert.Empty(t, pub.events, "failed quotes are not published")
		})
	}
}

func TestQuoteMalformedRulesAreConfigurationErrors(t *testing.T) {
	rules := pricing.NewService(docStore{"acme": `{"rounding_multiple": "five"}`}, nil, nil)
	s := NewService(fakePredictor{rate: 100}, rules, "v1", nil)

	_, err := s.Quote(context.Background(), "acme", validRequest())
	var ce *types.ConfigurationError
	require.True(t, errors.As(err, &ce), "got %v", err)
	assert.Equal(t, "rules_error", outcome(err))
}

func TestQuoteSurvivesPublishFailure(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	q, err := newTestService(fakePredictor{rate: 250}, pub).Quote(context.Background(), "acme", validRequest())
	require.NoError(t, err)
	assert.Equal(t, "315", q.Breakdown.FinalRate.String())
}

func TestQuoteNotConfigured(t *testing.T) {
	s := NewService(nil, pricing.NewService(nil, nil, nil), "v1", nil)
	_, err := s.Quote(context.Background(), "acme", validRequest())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", outcome(nil))
	assert.Equal(t, "invalid", outcome(types.NewValidationError("x", "y")))
	assert.Equal(t, "predictor_error", outcome(ErrInvalidPrediction))
	assert.Equal(t, "error", outcome(errors.New("boom")))
}
