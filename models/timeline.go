package models

// SectionStatus records whether one independently-computed portion of the
// timeline was produced, and if not, why. The exporter uses it to emit only
// the artifacts that exist instead of failing the whole run.
type SectionStatus struct {
	Present bool   `json:"present"`
	Error   string `json:"error,omitempty"`
}

// WarningCounts tallies malformed samples dropped during a run. Upstream
// transcription and audio timing can be imprecise at boundaries, so these are
// recorded rather than treated as fatal.
type WarningCounts struct {
	MalformedEvents    int `json:"malformed_events"`
	MalformedSentiment int `json:"malformed_sentiment"`
	MalformedLoudness  int `json:"malformed_loudness"`
}

// Timeline is the aggregate produced by one match run: the canonical event
// list, the fused excitement curve and its peak indices. Constructed once per
// run and immutable after export.
type Timeline struct {
	RunID         string           `json:"run_id"`
	MatchName     string           `json:"match_name"`
	MatchDuration float64          `json:"match_duration"`
	BucketWidth   float64          `json:"bucket_width"`
	Events        []CanonicalEvent `json:"events"`
	Curve         []FusedBucket    `json:"curve"`
	Peaks         []int            `json:"peaks"`
	EventSection  SectionStatus    `json:"event_section"`
	CurveSection  SectionStatus    `json:"curve_section"`
	Warnings      WarningCounts    `json:"warnings"`
}

// EventCount pairs an event type with its occurrence count. A sorted slice is
// used instead of a map so serialized insights stay byte-identical.
type EventCount struct {
	Type  EventType `json:"type"`
	Count int       `json:"count"`
}

// TimelineRow is one chronological entry of the insights event timeline,
// keyed by the match minute the event falls in.
type TimelineRow struct {
	Minute    int       `json:"minute"`
	Type      EventType `json:"type"`
	Timestamp float64   `json:"timestamp"`
}

// Insights is the combined summary artifact derived from a Timeline.
type Insights struct {
	RunID          string        `json:"run_id"`
	MatchName      string        `json:"match_name"`
	EventCounts    []EventCount  `json:"event_counts_by_type"`
	Timeline       []TimelineRow `json:"timeline"`
	PeakCount      int           `json:"peak_count"`
	PeakTimestamps []float64     `json:"peak_timestamps"`
	MeanExcitement float64       `json:"mean_excitement"`
	MaxExcitement  float64       `json:"max_excitement"`
	EventSection   SectionStatus `json:"event_section"`
	CurveSection   SectionStatus `json:"curve_section"`
	Warnings       WarningCounts `json:"warnings"`
}
