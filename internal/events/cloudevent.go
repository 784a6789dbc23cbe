// README: CloudEvents-style envelope for domain events published to Kafka.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	TopicQuoteEvents = "quote.events"
	QuoteIssued      = "quote.issued"
)

// CloudEvent is the JSON envelope every published message carries.
type CloudEvent struct {
	ID          string          `json:"id"`
	Source      string          `json:"source"`
	Type        string          `json:"type"`
	Time        time.Time       `json:"time"`
	ContentType string          `json:"datacontenttype"`
	Data        json.RawMessage `json:"data"`
}

func NewCloudEvent(source, eventType string, data any) (CloudEvent, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return CloudEvent{}, fmt.Errorf("marshal %s event data: %w", eventType, err)
	}
	return CloudEvent{
		ID:          uuid.NewString(),
		Source:      source,
		Type:        eventType,
		Time:        time.Now().UTC(),
		ContentType: "application/json",
		Data:        raw,
	}, nil
}

func ParseCloudEvent(b []byte) (CloudEvent, error) {
	var ce CloudEvent
	if err := json.Unmarshal(b, &ce); err != nil {
		return CloudEvent{}, fmt.Errorf("parse cloud event: %w", err)
	}
	if ce.Type == "" {
		return CloudEvent{}, fmt.Errorf("parse cloud event: missing type")
	}
	return ce, nil
}

func (ce CloudEvent) ParseData(v any) error {
	return json.Unmarshal(ce.Data, v)
}

// QuoteIssuedEvent is the payload of QuoteIssued.
type QuoteIssuedEvent struct {
	QuoteID               string    `json:"quote_id"`
	ClientID              string    `json:"client_id"`
	VehicleType           string    `json:"vehicle_type"`
	RawRate               string    `json:"raw_rate"`
	FinalRate             string    `json:"final_rate"`
	Currency              string    `json:"currency"`
	VehicleMinimumApplied bool      `json:"vehicle_minimum_applied"`
	ModelVersion          string    `json:"model_version"`
	OccurredAt            time.Time `json:"occurred_at"`
}
