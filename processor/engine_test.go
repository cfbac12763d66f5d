package processor

import (
	"errors"
	"strings"
	"testing"

	appconfig "matchflow/config"
	"matchflow/models"
)

func testFusionConfig() appconfig.FusionConfig {
	return appconfig.FusionConfig{
		BucketWidthS:             5,
		MergeWindowS:             15,
		EventConfidenceThreshold: 0.2,
		FusionWeight:             0.5,
		SmoothingWindow:          3,
		PeakThreshold:            0.6,
		PeakMinSpacing:           3,
	}
}

func TestEngineRun(t *testing.T) {
	engine := NewEngine(testFusionConfig())

	input := Input{
		MatchName: "Arsenal_vs_Chelsea_2-1",
		Duration:  60,
		Events: []models.RawEvent{
			{Type: models.EventGoal, Timestamp: 20, Confidence: 0.7},
			{Type: models.EventGoal, Timestamp: 26, Confidence: 0.9},
		},
		Sentiment: []models.SentimentSample{
			{Timestamp: 5, RawScore: 0},
			{Timestamp: 22, RawScore: 6},
			{Timestamp: 50, RawScore: 1},
		},
		Loudness: []models.LoudnessSample{
			{Timestamp: 5, RawLevel: 0.01},
			{Timestamp: 22, RawLevel: 0.4},
			{Timestamp: 50, RawLevel: 0.05},
		},
	}

	timeline, err := engine.Run(input)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if timeline.RunID == "" {
		t.Fatal("expected a run ID")
	}
	if timeline.MatchName != input.MatchName || timeline.MatchDuration != 60 || timeline.BucketWidth != 5 {
		t.Fatalf("timeline header mismatch: %+v", timeline)
	}
	if !timeline.EventSection.Present || !timeline.CurveSection.Present {
		t.Fatalf("both sections should be present: events %+v, curve %+v", timeline.EventSection, timeline.CurveSection)
	}
	if len(timeline.Events) != 1 || timeline.Events[0].SupportingCount != 2 {
		t.Fatalf("expected one merged goal with 2 contributors, got %+v", timeline.Events)
	}
	if len(timeline.Curve) != 12 {
		t.Fatalf("expected 12 buckets for a 60s match, got %d", len(timeline.Curve))
	}
	for _, idx := range timeline.Peaks {
		if !timeline.Curve[idx].IsPeak {
			t.Fatalf("peak bucket %d not flagged on the curve", idx)
		}
	}
}

func TestEngineRunNoEvents(t *testing.T) {
	engine := NewEngine(testFusionConfig())

	timeline, err := engine.Run(Input{
		MatchName: "quiet_match",
		Duration:  30,
		Loudness: []models.LoudnessSample{
			{Timestamp: 2, RawLevel: 0.1},
			{Timestamp: 15, RawLevel: 0.2},
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !timeline.EventSection.Present {
		t.Fatal("event section should be present even with no events")
	}
	if timeline.Events == nil || len(timeline.Events) != 0 {
		t.Fatalf("expected empty event list, got %v", timeline.Events)
	}
	if !timeline.CurveSection.Present || len(timeline.Curve) != 6 {
		t.Fatalf("expected a 6-bucket curve, got %d buckets", len(timeline.Curve))
	}
}

func TestEngineRunCountsMalformedSamples(t *testing.T) {
	engine := NewEngine(testFusionConfig())

	timeline, err := engine.Run(Input{
		MatchName: "boundary_match",
		Duration:  30,
		Events: []models.RawEvent{
			{Type: models.EventGoal, Timestamp: -1, Confidence: 0.9},
			{Type: models.EventGoal, Timestamp: 10, Confidence: 0.9},
		},
		Sentiment: []models.SentimentSample{
			{Timestamp: -0.5, RawScore: 1},
			{Timestamp: 31, RawScore: 1},
			{Timestamp: 10, RawScore: 1},
		},
		Loudness: []models.LoudnessSample{
			{Timestamp: 10, RawLevel: 0.1},
			{Timestamp: 12, RawLevel: 0.3},
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if timeline.Warnings.MalformedEvents != 1 {
		t.Fatalf("malformed events = %d, expected 1", timeline.Warnings.MalformedEvents)
	}
	if timeline.Warnings.MalformedSentiment != 2 {
		t.Fatalf("malformed sentiment = %d, expected 2", timeline.Warnings.MalformedSentiment)
	}
	if timeline.Warnings.MalformedLoudness != 0 {
		t.Fatalf("malformed loudness = %d, expected 0", timeline.Warnings.MalformedLoudness)
	}
	if len(timeline.Events) != 1 {
		t.Fatalf("expected the in-range goal to survive, got %+v", timeline.Events)
	}
}

func TestEngineRunCurveFailureKeepsEvents(t *testing.T) {
	engine := NewEngine(testFusionConfig())

	timeline, err := engine.Run(Input{
		MatchName: "no_signal_match",
		Duration:  30,
		Events: []models.RawEvent{
			{Type: models.EventYellowCard, Timestamp: 12, Confidence: 0.8},
		},
	})
	if err != nil {
		t.Fatalf("a curve failure should not fail the run: %v", err)
	}
	if !timeline.EventSection.Present || len(timeline.Events) != 1 {
		t.Fatalf("event section should survive a curve failure, got %+v", timeline.Events)
	}
	if timeline.CurveSection.Present {
		t.Fatal("curve section should be absent")
	}
	if !strings.Contains(timeline.CurveSection.Error, "insufficient signal") {
		t.Fatalf("curve section error = %q", timeline.CurveSection.Error)
	}
}

func TestEngineRunRejectsBadConfig(t *testing.T) {
	cfg := testFusionConfig()
	cfg.SmoothingWindow = 4

	engine := NewEngine(cfg)
	if _, err := engine.Run(Input{MatchName: "m", Duration: 30}); !errors.Is(err, models.ErrInvalidConfiguration) {
		t.Fatalf("expected invalid configuration, got %v", err)
	}
}
