// Package kafka publishes domain events emitted by the policy pipeline.
package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/ronled86/InsuraIQ/pkg/errors"
)

// Topics carrying policy lifecycle events.
const (
	TopicPolicyExtracted = "policy.extracted"
	TopicPolicyCompared  = "policy.compared"
)

// EventEnvelope is the wire format shared by every published event.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// PolicyExtractedPayload announces a policy created from an uploaded
// document.
type PolicyExtractedPayload struct {
	PolicyID     int64     `json:"policy_id"`
	UserID       string    `json:"user_id"`
	ProductType  string    `json:"product_type"`
	PolicyNumber string    `json:"policy_number"`
	Confidence   float64   `json:"confidence"`
	AIEnhanced   bool      `json:"ai_enhanced"`
	ExtractedAt  time.Time `json:"extracted_at"`
}

// PolicyComparedPayload announces a completed comparison run.
type PolicyComparedPayload struct {
	UserID      string    `json:"user_id"`
	PolicyIDs   []int64   `json:"policy_ids"`
	PolicyCount int       `json:"policy_count"`
	CacheHit    bool      `json:"cache_hit"`
	ComparedAt  time.Time `json:"compared_at"`
}

// NewEventEnvelope wraps a payload in a versioned envelope.
func NewEventEnvelope(eventType, source string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSerialization, "failed to marshal event payload")
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: "v1",
		Payload:       data,
	}, nil
}

// DecodePayload unmarshals the envelope payload into target.
func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return nil
	}
	return json.Unmarshal(e.Payload, target)
}
