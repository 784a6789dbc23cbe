package maps

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"googlemaps.github.io/maps"

	"logit/internal/types"
)

// Results are biased to the UAE road network.
const (
	defaultRegion   = "ae"
	defaultLanguage = "en"
)

// ErrNoRoute is returned when the directions API finds nothing between the
// two places.
var ErrNoRoute = errors.New("no route found")

// Leg is one origin-to-waypoint section of a route.
type Leg struct {
	DistanceMeters int           `json:"distance_m"`
	Duration       time.Duration `json:"duration"`
	Polyline       string        `json:"polyline"`
}

// Route is a driving route with its geometry decoded into lng/lat points.
// Path is built from the step polylines, which are denser than the overview
// polyline.
type Route struct {
	Summary        string
	DistanceMeters int
	Duration       time.Duration
	Polyline       string
	Legs           []Leg
	Path           []types.Point
}

// RouteService handles interactions with Google Maps API.
type RouteService struct {
	client *maps.Client
}

// NewRouteService creates a new RouteService with the given API Key.
func NewRouteService(apiKey string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// Directions returns the first driving route from origin to destination.
// Both are free text (addresses, landmarks) or "lat,lng".
func (s *RouteService) Directions(ctx context.Context, origin, destination string) (Route, error) {
	r := &maps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        maps.TravelModeDriving,
		Language:    defaultLanguage,
		Region:      defaultRegion,
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		if strings.Contains(err.Error(), "ZERO_RESULTS") || strings.Contains(err.Error(), "NOT_FOUND") {
			return Route{}, ErrNoRoute
		}
		return Route{}, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return Route{}, ErrNoRoute
	}

	return convertRoute(routes[0])
}

func convertRoute(src maps.Route) (Route, error) {
	out := Route{
		Summary:  src.Summary,
		Polyline: src.OverviewPolyline.Points,
	}
	for _, leg := range src.Legs {
		out.DistanceMeters += leg.Distance.Meters
		out.Duration += leg.Duration

		var legPoly string
		for _, step := range leg.Steps {
			pts, err := maps.DecodePolyline(step.Polyline.Points)
			if err != nil {
				return Route{}, fmt.Errorf("decode step polyline: %w", err)
			}
			out.Path = appendPath(out.Path, pts)
			if legPoly == "" {
				legPoly = step.Polyline.Points
			}
		}
		out.Legs = append(out.Legs, Leg{
			DistanceMeters: leg.Distance.Meters,
			Duration:       leg.Duration,
			Polyline:       legPoly,
		})
	}

	// Some responses omit steps; the overview is better than nothing.
	if len(out.Path) == 0 && out.Polyline != "" {
		pts, err := maps.DecodePolyline(out.Polyline)
		if err != nil {
			return Route{}, fmt.Errorf("decode overview polyline: %w", err)
		}
		out.Path = appendPath(out.Path, pts)
	}
	return out, nil
}

// appendPath converts to lng/lat order and drops points equal to the
// previous one, which occur where consecutive steps join.
func appendPath(path []types.Point, pts []maps.LatLng) []types.Point {
	for _, ll := range pts {
		p := types.Point{Lng: ll.Lng, Lat: ll.Lat}
		if n := len(path); n > 0 && path[n-1] == p {
			continue
		}
		path = append(path, p)
	}
	return path
}
