package quote

import (
	"context"
	"sync"

	"logit/internal/events"
	"logit/internal/modules/pricing"
)

func validRequest() FreightRequest {
	return FreightRequest{
		ClientType:           "retailer",
		Origin:               "Jebel Ali Port",
		Destination:          "Al Quoz",
		DistanceKm:           30,
		LoadType:             "dry",
		LoadWeightTons:       3.2,
		VehicleType:          "7t_truck",
		FuelPriceAEDPerLitre: 3.1,
		SalikGates:           2,
		SalikChargesAED:      8,
		CustomsFeesAED:       60,
		WaitingTimeHours:     1.5,
		ContractType:         "spot",
		BackhaulAvailable:    0,
		Month:                8,
		Season:               "summer",
		Weather:              "hot",
		PeakDemandFactor:     1.06,
	}
}

type fakePredictor struct {
	rate float64
	err  error
}

func (f fakePredictor) Predict(ctx context.Context, req FreightRequest) (float64, error) {
	return f.rate, f.err
}

type docStore map[string]string

func (s docStore) Get(_ context.Context, clientID string) (map[string]any, error) {
	body, ok := s[clientID]
	if !ok {
		return nil, pricing.ErrRulesNotFound
	}
	return pricing.ParseDocumentBytes(clientID, []byte(body))
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.CloudEvent
	keys   []string
	err    error
}

func (p *recordingPublisher) PublishEvent(ctx context.Context, topic, key string, ce events.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ce)
	p.keys = append(p.keys, key)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }
