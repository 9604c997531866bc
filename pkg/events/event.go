package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "COACH_ESCALATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// EscalationEvent is emitted whenever the safety gate short-circuits a
// recommendation request. The journal text itself is never included.
type EscalationEvent struct {
	RequestId  string
	Locale     string
	OccurredAt time.Time
}

func (e EscalationEvent) EventType() string {
	return "coach.escalated"
}

func (e EscalationEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"request_id":  e.RequestId,
		"locale":      e.Locale,
		"occurred_at": e.OccurredAt,
	}
}

func (e EscalationEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// IndexIngestedEvent is emitted after a corpus rebuild swaps in a new index.
type IndexIngestedEvent struct {
	ChunkCount int
	DocCount   int
	OccurredAt time.Time
}

func (e IndexIngestedEvent) EventType() string {
	return "index.ingested"
}

func (e IndexIngestedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"chunk_count": e.ChunkCount,
		"doc_count":   e.DocCount,
		"occurred_at": e.OccurredAt,
	}
}

func (e IndexIngestedEvent) Timestamp() time.Time {
	return e.OccurredAt
}
