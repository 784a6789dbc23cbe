// README: GeoJSON toll gate catalog loading (FeatureCollection of Points).
package tolls

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"logit/internal/types"
)

// CatalogStats summarises one catalog load.
type CatalogStats struct {
	Features   int `json:"features"`
	Loaded     int `json:"loaded"`
	Skipped    int `json:"skipped"`
	Duplicates int `json:"duplicates"`
}

// rawCollection keeps features undecoded so one malformed feature does not
// fail the whole document.
type rawCollection struct {
	Type     string            `json:"type"`
	Features []json.RawMessage `json:"features"`
}

// LoadCatalog parses a GeoJSON FeatureCollection of toll gates. Each gate
// needs properties.id (string or number) and a Point geometry; the fee is
// read from properties.fee or properties.fee_aed and defaults to 0.
// Unusable features are skipped with a warning. Only a document that is not
// a FeatureCollection is an error.
func LoadCatalog(r io.Reader, logger *zap.Logger, opts ...CatalogOption) (*Catalog, CatalogStats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var stats CatalogStats

	var doc rawCollection
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, stats, &types.ConfigurationError{Subject: "toll catalog", Reason: "invalid JSON", Err: err}
	}
	if doc.Type != "FeatureCollection" {
		return nil, stats, &types.ConfigurationError{
			Subject: "toll catalog",
			Key:     "type",
			Reason:  fmt.Sprintf("expected FeatureCollection, got %q", doc.Type),
		}
	}

	stats.Features = len(doc.Features)
	gates := make([]Gate, 0, len(doc.Features))
	seen := make(map[string]struct{}, len(doc.Features))
	for i, raw := range doc.Features {
		gate, err := decodeGate(raw)
		if err != nil {
			stats.Skipped++
			logger.Warn("skipping toll feature", zap.Int("index", i), zap.Error(err))
			continue
		}
		if _, dup := seen[gate.ID]; dup {
			stats.Duplicates++
			logger.Warn("duplicate toll gate id, keeping first", zap.Int("index", i), zap.String("gate_id", gate.ID))
			continue
		}
		seen[gate.ID] = struct{}{}
		gates = append(gates, gate)
	}
	stats.Loaded = len(gates)

	return NewCatalog(gates, opts...), stats, nil
}

// LoadCatalogFile loads a catalog from disk. A missing file yields an empty
// catalog so the service can still quote without toll data.
func LoadCatalogFile(path string, logger *zap.Logger, opts ...CatalogOption) (*Catalog, CatalogStats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn("toll catalog not found, toll matching disabled", zap.String("path", path))
		return NewCatalog(nil, opts...), CatalogStats{}, nil
	}
	if err != nil {
		return nil, CatalogStats{}, fmt.Errorf("open toll catalog %s: %w", path, err)
	}
	defer f.Close()

	c, stats, err := LoadCatalog(f, logger, opts...)
	if err != nil {
		return nil, stats, fmt.Errorf("load toll catalog %s: %w", path, err)
	}
	return c, stats, nil
}

func decodeGate(raw json.RawMessage) (Gate, error) {
	f, err := geojson.UnmarshalFeature(raw)
	if err != nil {
		return Gate{}, err
	}

	id, err := gateID(f)
	if err != nil {
		return Gate{}, err
	}

	pt, ok := f.Geometry.(orb.Point)
	if !ok {
		if f.Geometry == nil {
			return Gate{}, fmt.Errorf("gate %s: missing geometry", id)
		}
		return Gate{}, fmt.Errorf("gate %s: geometry is %s, want Point", id, f.Geometry.GeoJSONType())
	}
	if err := checkPointCoordinates(raw); err != nil {
		return Gate{}, fmt.Errorf("gate %s: %w", id, err)
	}
	loc := types.Point{Lng: pt.Lon(), Lat: pt.Lat()}
	if !loc.Valid() {
		return Gate{}, fmt.Errorf("gate %s: coordinates out of range", id)
	}

	return Gate{ID: id, Location: loc, Fee: gateFee(f.Properties)}, nil
}

// rawPointGeometry exposes the coordinate array that orb.Point, a [2]float64,
// would otherwise pad with zeros.
type rawPointGeometry struct {
	Geometry struct {
		Coordinates []json.RawMessage `json:"coordinates"`
	} `json:"geometry"`
}

// checkPointCoordinates requires at least a numeric [lon, lat] pair. A third
// element (altitude) is allowed and ignored.
func checkPointCoordinates(raw json.RawMessage) error {
	var g rawPointGeometry
	if err := json.Unmarshal(raw, &g); err != nil {
		return fmt.Errorf("malformed coordinates: %w", err)
	}
	coords := g.Geometry.Coordinates
	if len(coords) < 2 {
		return fmt.Errorf("malformed coordinates: want [lon, lat], got %d values", len(coords))
	}
	for _, c := range coords[:2] {
		var v *float64
		if err := json.Unmarshal(c, &v); err != nil || v == nil {
			return fmt.Errorf("malformed coordinates: %s is not a number", string(c))
		}
	}
	return nil
}

func gateID(f *geojson.Feature) (string, error) {
	v, ok := f.Properties["id"]
	if !ok || v == nil {
		v = f.ID
	}
	switch id := v.(type) {
	case string:
		if strings.TrimSpace(id) == "" {
			return "", errors.New("empty id")
		}
		return id, nil
	case float64:
		if math.IsNaN(id) || math.IsInf(id, 0) {
			return "", errors.New("non-finite id")
		}
		return strconv.FormatFloat(id, 'f', -1, 64), nil
	case json.Number:
		return id.String(), nil
	case nil:
		return "", errors.New("missing id")
	default:
		return "", fmt.Errorf("unsupported id type %T", v)
	}
}

// gateFee treats anything that is not a non-negative finite number as 0.
func gateFee(props geojson.Properties) decimal.Decimal {
	v, ok := props["fee"]
	if !ok || v == nil {
		v = props["fee_aed"]
	}
	var fee decimal.Decimal
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero
		}
		fee = decimal.NewFromFloat(n)
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero
		}
		fee = d
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Zero
		}
		fee = d
	default:
		return decimal.Zero
	}
	if fee.IsNegative() {
		return decimal.Zero
	}
	return fee
}
