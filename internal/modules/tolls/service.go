// README: Toll service holding the active catalog; reloads swap it atomically.
package tolls

import (
	"sync/atomic"

	"go.uber.org/zap"

	"logit/internal/metrics"
)

// Service matches routes against the active catalog. Matches running during
// a Reload keep using the catalog they started with.
type Service struct {
	catalog atomic.Pointer[Catalog]
	radiusM float64
	opts    []CatalogOption
	logger  *zap.Logger
}

func NewService(catalog *Catalog, radiusM float64, logger *zap.Logger, opts ...CatalogOption) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if radiusM <= 0 {
		radiusM = DefaultRadiusMeters
	}
	if catalog == nil {
		catalog = NewCatalog(nil, opts...)
	}
	s := &Service{radiusM: radiusM, opts: opts, logger: logger}
	s.swap(catalog)
	return s
}

func (s *Service) Catalog() *Catalog {
	return s.catalog.Load()
}

func (s *Service) RadiusMeters() float64 {
	return s.radiusM
}

func (s *Service) Match(route RoutePath) MatchResult {
	return Match(route, s.catalog.Load(), s.radiusM)
}

// Reload reads path and replaces the active catalog. On error the previous
// catalog stays active.
func (s *Service) Reload(path string) (CatalogStats, error) {
	c, stats, err := LoadCatalogFile(path, s.logger, s.opts...)
	if err != nil {
		s.logger.Error("toll catalog reload failed", zap.String("path", path), zap.Error(err))
		return stats, err
	}
	s.swap(c)
	s.logger.Info("toll catalog loaded",
		zap.String("path", path),
		zap.Int("gates", stats.Loaded),
		zap.Int("skipped", stats.Skipped),
		zap.Int("duplicates", stats.Duplicates),
	)
	return stats, nil
}

func (s *Service) swap(c *Catalog) {
	s.catalog.Store(c)
	metrics.TollCatalogGates.Set(float64(c.Len()))
}
