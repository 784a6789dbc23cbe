// README: Quote orchestration: validate, predict, apply client rules, publish.
package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"logit/internal/events"
	"logit/internal/metrics"
	"logit/internal/modules/pallets"
	"logit/internal/modules/pricing"
	"logit/internal/types"
)

// confidenceSpread is the half-width of the heuristic interval around the
// raw model rate.
var confidenceSpread = decimal.RequireFromString("0.06")

const eventSource = "logit-api"

type Service struct {
	predictor      Predictor
	pricing        *pricing.Service
	publisher      events.Publisher
	modelVersion   string
	publishTimeout time.Duration
	logger         *zap.Logger
	now            func() time.Time
}

type Option func(*Service)

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithPublishTimeout(d time.Duration) Option {
	return func(s *Service) { s.publishTimeout = d }
}

func NewService(predictor Predictor, pricingSvc *pricing.Service, modelVersion string, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		predictor:      predictor,
		pricing:        pricingSvc,
		publisher:      events.NopPublisher{},
		modelVersion:   modelVersion,
		publishTimeout: 2 * time.Second,
		logger:         logger,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Quote prices req for clientID. Event publication failures are logged and
// never fail the quote.
func (s *Service) Quote(ctx context.Context, clientID string, req FreightRequest) (Quote, error) {
	q, err := s.quote(ctx, clientID, req)
	metrics.QuotesTotal.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		return Quote{}, err
	}
	if q.Breakdown.VehicleMinimumApplied {
		metrics.VehicleMinimumApplied.Inc()
	}
	s.publishIssued(ctx, q, req.VehicleType)
	return q, nil
}

func (s *Service) quote(ctx context.Context, clientID string, req FreightRequest) (Quote, error) {
	if err := s.Ready(); err != nil {
		return Quote{}, err
	}
	if err := req.Validate(); err != nil {
		return Quote{}, err
	}

	var summary *pallets.Summary
	if req.Pallets != nil {
		sum, err := pallets.Summarize(req.LoadWeightTons*1000, *req.Pallets)
		if err != nil {
			return Quote{}, err
		}
		summary = &sum
	}

	yhat, err := s.predictor.Predict(ctx, req)
	if err != nil {
		return Quote{}, err
	}
	if yhat, err = checkPrediction(yhat); err != nil {
		return Quote{}, err
	}

	raw := decimal.NewFromFloat(yhat).Round(2)
	breakdown, rules, err := s.pricing.Apply(ctx, clientID, raw, req.VehicleType)
	if err != nil {
		return Quote{}, err
	}

	q := Quote{
		ID:       uuid.New(),
		ClientID: clientID,
		Model: ModelOutput{
			RawRate:     raw,
			ConfLow:     raw.Mul(decimal.NewFromInt(1).Sub(confidenceSpread)).Round(2),
			ConfHigh:    raw.Mul(decimal.NewFromInt(1).Add(confidenceSpread)).Round(2),
			Version:     s.modelVersion,
			GeneratedAt: s.now().UTC(),
		},
		Rules:     rules,
		Breakdown: breakdown,
		Final:     types.NewMoney(breakdown.FinalRate, rules.Currency),
		Pallets:   summary,
	}

	s.logger.Info("quote issued",
		zap.String("quote_id", q.ID.String()),
		zap.String("client_id", clientID),
		zap.String("vehicle_type", req.VehicleType),
		zap.String("raw_rate", raw.StringFixed(2)),
		zap.String("final_rate", q.Final.String()),
		zap.Bool("vehicle_minimum_applied", breakdown.VehicleMinimumApplied),
	)
	return q, nil
}

func (s *Service) publishIssued(ctx context.Context, q Quote, vehicleType string) {
	ce, err := events.NewCloudEvent(eventSource, events.QuoteIssued, events.QuoteIssuedEvent{
		QuoteID:               q.ID.String(),
		ClientID:              q.ClientID,
		VehicleType:           vehicleType,
		RawRate:               q.Model.RawRate.StringFixed(2),
		FinalRate:             q.Final.Rounded().StringFixed(2),
		Currency:              q.Final.Currency,
		VehicleMinimumApplied: q.Breakdown.VehicleMinimumApplied,
		ModelVersion:          q.Model.Version,
		OccurredAt:            q.Model.GeneratedAt,
	})
	if err != nil {
		s.logger.Error("failed to create cloud event", zap.String("event_type", events.QuoteIssued), zap.Error(err))
		metrics.EventPublishFailures.WithLabelValues(events.QuoteIssued).Inc()
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()
	if err := s.publisher.PublishEvent(pubCtx, events.TopicQuoteEvents, q.ClientID, ce); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", events.TopicQuoteEvents),
			zap.String("event_type", events.QuoteIssued),
			zap.String("quote_id", q.ID.String()),
			zap.Error(err),
		)
		metrics.EventPublishFailures.WithLabelValues(events.QuoteIssued).Inc()
	}
}

func outcome(err error) string {
	var ve *types.ValidationError
	var ce *types.ConfigurationError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &ve):
		return "invalid"
	case errors.Is(err, ErrPredictorUnavailable), errors.Is(err, ErrInvalidPrediction):
		return "predictor_error"
	case errors.As(err, &ce):
		return "rules_error"
	default:
		return "error"
	}
}

// Ready reports whether quotes can be issued.
func (s *Service) Ready() error {
	if s == nil || s.predictor == nil || s.pricing == nil {
		return fmt.Errorf("quote service: %w", ErrNotConfigured)
	}
	return nil
}
