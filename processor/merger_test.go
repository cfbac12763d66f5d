package processor

import (
	"testing"

	"matchflow/models"
)

func TestMergeEventsDeduplicatesBurst(t *testing.T) {
	raw := []models.RawEvent{
		{Type: models.EventGoal, Timestamp: 100, Confidence: 0.7, SourceText: "goal for the home side"},
		{Type: models.EventGoal, Timestamp: 108, Confidence: 0.9, SourceText: "what a goal"},
	}

	merged := MergeEvents(raw, 15, 0.2)
	if len(merged) != 1 {
		t.Fatalf("expected 1 canonical event, got %d", len(merged))
	}
	ev := merged[0]
	if ev.Timestamp != 100 {
		t.Fatalf("canonical timestamp %g, expected earliest mention 100", ev.Timestamp)
	}
	if ev.Confidence != 0.9 {
		t.Fatalf("canonical confidence %g, expected max 0.9", ev.Confidence)
	}
	if ev.SupportingCount != 2 {
		t.Fatalf("supporting count %d, expected 2", ev.SupportingCount)
	}
}

func TestMergeEventsSlidingWindowChainsBurst(t *testing.T) {
	// Consecutive gaps are each within the window even though the first and
	// last mention are not. A continuous burst stays one event.
	raw := []models.RawEvent{
		{Type: models.EventGoal, Timestamp: 0, Confidence: 0.5},
		{Type: models.EventGoal, Timestamp: 12, Confidence: 0.8},
		{Type: models.EventGoal, Timestamp: 24, Confidence: 0.6},
		{Type: models.EventGoal, Timestamp: 60, Confidence: 0.7},
	}

	merged := MergeEvents(raw, 15, 0.2)
	if len(merged) != 2 {
		t.Fatalf("expected 2 canonical events, got %d", len(merged))
	}
	if merged[0].Timestamp != 0 || merged[0].SupportingCount != 3 {
		t.Fatalf("first event = {ts %g, count %d}, expected {0, 3}", merged[0].Timestamp, merged[0].SupportingCount)
	}
	if merged[1].Timestamp != 60 || merged[1].SupportingCount != 1 {
		t.Fatalf("second event = {ts %g, count %d}, expected {60, 1}", merged[1].Timestamp, merged[1].SupportingCount)
	}
}

func TestMergeEventsTypesDoNotCrossMerge(t *testing.T) {
	raw := []models.RawEvent{
		{Type: models.EventGoal, Timestamp: 50, Confidence: 0.8},
		{Type: models.EventYellowCard, Timestamp: 52, Confidence: 0.8},
	}

	merged := MergeEvents(raw, 15, 0.2)
	if len(merged) != 2 {
		t.Fatalf("expected 2 canonical events across types, got %d", len(merged))
	}
}

func TestMergeEventsDropsBelowThreshold(t *testing.T) {
	raw := []models.RawEvent{
		{Type: models.EventFoul, Timestamp: 10, Confidence: 0.1},
	}
	if merged := MergeEvents(raw, 15, 0.2); len(merged) != 0 {
		t.Fatalf("expected below-threshold event to be dropped, got %d events", len(merged))
	}
}

func TestMergeEventsOrdering(t *testing.T) {
	raw := []models.RawEvent{
		{Type: models.EventGoal, Timestamp: 200, Confidence: 0.9},
		{Type: models.EventFoul, Timestamp: 40, Confidence: 0.5},
		{Type: models.EventGoal, Timestamp: 40, Confidence: 0.6},
	}

	merged := MergeEvents(raw, 15, 0.2)
	if len(merged) != 3 {
		t.Fatalf("expected 3 canonical events, got %d", len(merged))
	}
	if merged[0].Type != models.EventFoul || merged[0].Timestamp != 40 {
		t.Fatalf("first event = {%s, %g}, expected foul at 40", merged[0].Type, merged[0].Timestamp)
	}
	if merged[1].Type != models.EventGoal || merged[1].Timestamp != 40 {
		t.Fatalf("second event = {%s, %g}, expected goal at 40", merged[1].Type, merged[1].Timestamp)
	}
	if merged[2].Type != models.EventGoal || merged[2].Timestamp != 200 {
		t.Fatalf("third event = {%s, %g}, expected goal at 200", merged[2].Type, merged[2].Timestamp)
	}
}

func TestMergeEventsIdempotent(t *testing.T) {
	raw := []models.RawEvent{
		{Type: models.EventGoal, Timestamp: 100, Confidence: 0.7},
		{Type: models.EventGoal, Timestamp: 108, Confidence: 0.9},
		{Type: models.EventGoal, Timestamp: 150, Confidence: 0.6},
		{Type: models.EventSubstitution, Timestamp: 120, Confidence: 0.8},
	}

	first := MergeEvents(raw, 15, 0.2)

	asRaw := make([]models.RawEvent, len(first))
	for i, ev := range first {
		asRaw[i] = models.RawEvent{Type: ev.Type, Timestamp: ev.Timestamp, Confidence: ev.Confidence}
	}
	second := MergeEvents(asRaw, 15, 0.2)

	if len(second) != len(first) {
		t.Fatalf("re-merge changed event count: %d -> %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Type != second[i].Type || first[i].Timestamp != second[i].Timestamp || first[i].Confidence != second[i].Confidence {
			t.Fatalf("re-merge changed event %d: %+v -> %+v", i, first[i], second[i])
		}
	}
}

func TestMergeEventsEmptyInput(t *testing.T) {
	merged := MergeEvents(nil, 15, 0.2)
	if merged == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(merged) != 0 {
		t.Fatalf("expected no events, got %d", len(merged))
	}
}
