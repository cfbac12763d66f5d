package models

// SentimentSample is one raw excitement/sentiment score for a transcript
// segment. RawScore is whatever the scorer produced; it is only comparable
// within one match and gets min-max normalized by the fusion core.
type SentimentSample struct {
	Timestamp float64 `json:"timestamp"`
	RawScore  float64 `json:"raw_score"`
	SpanStart int     `json:"span_start"`
	SpanEnd   int     `json:"span_end"`
}

// LoudnessSample is one raw audio level measurement, sampled at fixed
// intervals and much denser than sentiment samples. RawLevel is linear RMS.
type LoudnessSample struct {
	Timestamp float64 `json:"timestamp"`
	RawLevel  float64 `json:"raw_level"`
}

// TimeBucket is one fixed-width interval of the common time axis. Buckets are
// half-open [Start, End) except the last, whose End is clamped to the match
// duration.
type TimeBucket struct {
	Index int     `json:"index"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// FusedBucket carries the fused excitement value for one TimeBucket along
// with the normalized per-signal components it was derived from.
type FusedBucket struct {
	Bucket        TimeBucket `json:"bucket"`
	Excitement    float64    `json:"excitement"`
	SentimentNorm float64    `json:"sentiment_norm"`
	LoudnessNorm  float64    `json:"loudness_norm"`
	IsPeak        bool       `json:"is_peak"`
}
