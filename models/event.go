package models

// EventType identifies the kind of match occurrence detected in commentary.
type EventType string

const (
	EventGoal         EventType = "goal"
	EventYellowCard   EventType = "yellow_card"
	EventRedCard      EventType = "red_card"
	EventOffside      EventType = "offside"
	EventSubstitution EventType = "substitution"
	EventInjury       EventType = "injury"
	EventFoul         EventType = "foul"
)

// EventTypes lists all known event types in a fixed order. Exporters and
// insight builders iterate this instead of ranging over maps so output stays
// deterministic.
var EventTypes = []EventType{
	EventGoal,
	EventYellowCard,
	EventRedCard,
	EventOffside,
	EventSubstitution,
	EventInjury,
	EventFoul,
}

// RawEvent is a single textual event detection produced by pattern matching
// over one transcript segment. Immutable once created.
type RawEvent struct {
	Type       EventType `json:"type"`
	Timestamp  float64   `json:"timestamp"`
	SourceText string    `json:"source_text"`
	Confidence float64   `json:"confidence"`
	SpanStart  int       `json:"span_start"`
	SpanEnd    int       `json:"span_end"`
}

// CanonicalEvent is the merged representation of one real-world occurrence.
// Timestamp comes from the earliest contributing RawEvent, confidence is the
// maximum among contributors.
type CanonicalEvent struct {
	Type            EventType `json:"type"`
	Timestamp       float64   `json:"timestamp"`
	Confidence      float64   `json:"confidence"`
	SupportingCount int       `json:"supporting_count"`
}
