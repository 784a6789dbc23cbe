package tolls

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceMatchUsesConfiguredRadius(t *testing.T) {
	route := RoutePath{north(salikAlGarhoud.Location, 80)}

	s := NewService(NewCatalog([]Gate{salikAlGarhoud}), 0, nil)
	assert.Equal(t, DefaultRadiusMeters, s.RadiusMeters())
	assert.Equal(t, 0, s.Match(route).MatchedGateCount)

	wide := NewService(NewCatalog([]Gate{salikAlGarhoud}), 100, nil)
	assert.Equal(t, 1, wide.Match(route).MatchedGateCount)
}

func TestServiceNilCatalog(t *testing.T) {
	s := NewService(nil, 60, nil)
	assert.Equal(t, 0, s.Catalog().Len())
	assert.Equal(t, 0, s.Match(RoutePath{salikAlGarhoud.Location}).MatchedGateCount)
}

func TestServiceReload(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "tolls.geojson")
	bad := filepath.Join(dir, "broken.geojson")
	require.NoError(t, os.WriteFile(good, []byte(sampleCatalog), 0o600))
	require.NoError(t, os.WriteFile(bad, []byte(`{"type": "Feature"}`), 0o600))

	s := NewService(nil, 60, nil)
	before := s.Catalog()

	stats, err := s.Reload(good)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Loaded)
	assert.NotSame(t, before, s.Catalog())
	assert.Equal(t, 1, s.Match(RoutePath{salikAlGarhoud.Location}).MatchedGateCount)

	loaded := s.Catalog()
	_, err = s.Reload(bad)
	require.Error(t, err)
	assert.Same(t, loaded, s.Catalog(), "failed reload keeps the previous catalog")
}
