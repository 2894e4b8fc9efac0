package core

import (
	"encoding/json"
	"strings"
	"time"
)

// wireBody fixes the field order of the outbound webhook body. Struct fields
// marshal in declaration order and map keys marshal sorted, so the encoded
// byte sequence is stable across runs. The HMAC signature is computed over
// exactly these bytes.
type wireBody struct {
	EventType  string         `json:"event_type"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	ActorID    *string        `json:"actor_id"`
	DocumentID *string        `json:"document_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

// EncodeBody serializes an envelope into the deterministic wire form sent to
// webhook endpoints and frozen onto delivery records.
func EncodeBody(event Envelope) ([]byte, error) {
	body := wireBody{
		EventType:  strings.TrimSpace(event.EventType),
		EntityType: strings.TrimSpace(event.EntityType),
		EntityID:   strings.TrimSpace(event.EntityID),
		OccurredAt: event.OccurredAt.UTC(),
		Payload:    event.Payload,
	}
	if body.Payload == nil {
		body.Payload = map[string]any{}
	}
	if trimmed := strings.TrimSpace(event.ActorID); trimmed != "" {
		body.ActorID = &trimmed
	}
	if trimmed := strings.TrimSpace(event.DocumentID); trimmed != "" {
		body.DocumentID = &trimmed
	}
	return json.Marshal(body)
}

// DecodeBody restores an envelope from its wire form. Used by queue consumers
// that receive the frozen snapshot rather than the original envelope value.
func DecodeBody(raw []byte) (Envelope, error) {
	var body wireBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return Envelope{}, err
	}
	event := Envelope{
		EventType:  body.EventType,
		EntityType: body.EntityType,
		EntityID:   body.EntityID,
		OccurredAt: body.OccurredAt,
		Payload:    body.Payload,
	}
	if body.ActorID != nil {
		event.ActorID = strings.TrimSpace(*body.ActorID)
	}
	if body.DocumentID != nil {
		event.DocumentID = strings.TrimSpace(*body.DocumentID)
	}
	if event.Payload == nil {
		event.Payload = map[string]any{}
	}
	return event, nil
}
