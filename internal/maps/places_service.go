package maps

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"
)

// maxSuggestions caps autocomplete results.
const maxSuggestions = 5

// PlacesService handles interactions with Google Places API.
type PlacesService struct {
	client *maps.Client
}

// NewPlacesService creates a new PlacesService with the given API Key.
func NewPlacesService(apiKey string) (*PlacesService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &PlacesService{client: client}, nil
}

// Suggest returns place descriptions completing query, restricted to the UAE.
// A blank query returns no suggestions without calling the API.
func (s *PlacesService) Suggest(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []string{}, nil
	}

	r := &maps.PlaceAutocompleteRequest{
		Input:    query,
		Language: defaultLanguage,
		Components: map[maps.Component][]string{
			maps.ComponentCountry: {defaultRegion},
		},
	}

	resp, err := s.client.PlaceAutocomplete(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}

	return suggestionsFrom(resp.Predictions), nil
}

func suggestionsFrom(predictions []maps.AutocompletePrediction) []string {
	out := make([]string, 0, maxSuggestions)
	seen := make(map[string]struct{}, len(predictions))
	for _, p := range predictions {
		desc := strings.TrimSpace(p.Description)
		if desc == "" {
			continue
		}
		if _, dup := seen[desc]; dup {
			continue
		}
		seen[desc] = struct{}{}
		out = append(out, desc)
		if len(out) >= maxSuggestions {
			break
		}
	}
	return out
}
