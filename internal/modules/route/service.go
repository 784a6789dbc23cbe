// README: Route features service; combines the directions provider with the toll matcher.
package route

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"logit/internal/maps"
	"logit/internal/modules/tolls"
	"logit/internal/types"
)

// Router resolves a driving route between two free-text places.
type Router interface {
	Directions(ctx context.Context, origin, destination string) (maps.Route, error)
}

type Service struct {
	router Router
	tolls  *tolls.Service
	logger *zap.Logger
}

func NewService(router Router, tollSvc *tolls.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{router: router, tolls: tollSvc, logger: logger}
}

// Route returns the raw driving route.
func (s *Service) Route(ctx context.Context, origin, destination string) (maps.Route, error) {
	origin, destination = strings.TrimSpace(origin), strings.TrimSpace(destination)
	if origin == "" {
		return maps.Route{}, types.NewValidationError("origin", "must not be empty")
	}
	if destination == "" {
		return maps.Route{}, types.NewValidationError("destination", "must not be empty")
	}

	r, err := s.router.Directions(ctx, origin, destination)
	if err != nil {
		return maps.Route{}, fmt.Errorf("directions %q -> %q: %w", origin, destination, err)
	}
	return r, nil
}

// Features routes origin to destination and counts the toll gates passed.
func (s *Service) Features(ctx context.Context, origin, destination string) (Features, error) {
	r, err := s.Route(ctx, origin, destination)
	if err != nil {
		return Features{}, err
	}

	match := tolls.MatchResult{TotalFee: decimal.Zero}
	if s.tolls != nil {
		match = s.tolls.Match(tolls.RoutePath(r.Path))
	}

	s.logger.Debug("route features computed",
		zap.String("origin", origin),
		zap.String("destination", destination),
		zap.Int("distance_m", r.DistanceMeters),
		zap.Int("path_points", len(r.Path)),
		zap.Int("toll_gates", match.MatchedGateCount),
	)

	return Features{
		Origin:         strings.TrimSpace(origin),
		Destination:    strings.TrimSpace(destination),
		DistanceKm:     roundTo(float64(r.DistanceMeters)/1000, 3),
		DurationMin:    roundTo(r.Duration.Minutes(), 1),
		TollGates:      match.MatchedGateCount,
		TollChargesAED: match.TotalFee,
		TollGateIDs:    match.GateIDs,
		Polyline:       r.Polyline,
	}, nil
}

func roundTo(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
