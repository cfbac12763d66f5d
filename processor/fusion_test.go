package processor

import (
	"errors"
	"math"
	"testing"

	"matchflow/models"
)

func mustTimeBase(t *testing.T, duration, width float64) *TimeBase {
	t.Helper()
	tb, err := NewTimeBase(duration, width)
	if err != nil {
		t.Fatalf("NewTimeBase(%g, %g): %v", duration, width, err)
	}
	return tb
}

func TestFuseBlendsNormalizedSignals(t *testing.T) {
	tb := mustTimeBase(t, 10, 5)

	// Raw extremes pin the min-max normalization so the values landing in
	// bucket 1 normalize to exactly 0.8 and 0.4.
	sentiment := []models.SentimentSample{
		{Timestamp: 1, RawScore: 0},
		{Timestamp: 2, RawScore: 1},
		{Timestamp: 7, RawScore: 0.8},
	}
	loudness := []models.LoudnessSample{
		{Timestamp: 1, RawLevel: 0},
		{Timestamp: 2, RawLevel: 1},
		{Timestamp: 7, RawLevel: 0.4},
	}

	curve, err := Fuse(tb, sentiment, loudness, 0.5, 1)
	if err != nil {
		t.Fatalf("Fuse: %v", err)
	}
	if len(curve) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(curve))
	}
	if math.Abs(curve[1].Excitement-0.6) > 1e-9 {
		t.Fatalf("bucket 1 excitement %g, expected 0.6", curve[1].Excitement)
	}
	if math.Abs(curve[1].SentimentNorm-0.8) > 1e-9 || math.Abs(curve[1].LoudnessNorm-0.4) > 1e-9 {
		t.Fatalf("bucket 1 components = {%g, %g}, expected {0.8, 0.4}", curve[1].SentimentNorm, curve[1].LoudnessNorm)
	}
}

func TestFuseHoldLastValue(t *testing.T) {
	tb := mustTimeBase(t, 20, 5)

	// Loudness covers buckets 0 and 2 only; 1 and 3 must carry the previous
	// bucket's value forward. Sentiment is absent and sits at the neutral
	// baseline throughout.
	loudness := []models.LoudnessSample{
		{Timestamp: 1, RawLevel: 2},
		{Timestamp: 2, RawLevel: 4},
		{Timestamp: 11, RawLevel: 0},
	}

	curve, err := Fuse(tb, nil, loudness, 0.5, 1)
	if err != nil {
		t.Fatalf("Fuse: %v", err)
	}
	want := []float64{0.625, 0.625, 0.25, 0.25}
	for i, w := range want {
		if math.Abs(curve[i].Excitement-w) > 1e-9 {
			t.Fatalf("bucket %d excitement %g, expected %g", i, curve[i].Excitement, w)
		}
		if curve[i].SentimentNorm != 0.5 {
			t.Fatalf("bucket %d sentiment %g, expected neutral 0.5", i, curve[i].SentimentNorm)
		}
	}
}

func TestFuseNeutralBaselineBeforeFirstSample(t *testing.T) {
	tb := mustTimeBase(t, 20, 5)

	loudness := []models.LoudnessSample{
		{Timestamp: 12, RawLevel: 3},
	}

	curve, err := Fuse(tb, nil, loudness, 0.5, 1)
	if err != nil {
		t.Fatalf("Fuse: %v", err)
	}
	for _, i := range []int{0, 1} {
		if curve[i].LoudnessNorm != 0.5 {
			t.Fatalf("bucket %d loudness %g before first sample, expected 0.5", i, curve[i].LoudnessNorm)
		}
	}
}

func TestFuseSmoothingShrinksAtEdges(t *testing.T) {
	tb := mustTimeBase(t, 20, 5)

	// Four buckets, each holding one loudness sample so the pre-smoothing
	// curve is exactly [0.5, 0.5, 0.5, 1.0] on the loudness side.
	loudness := []models.LoudnessSample{
		{Timestamp: 1, RawLevel: 1},
		{Timestamp: 6, RawLevel: 1},
		{Timestamp: 11, RawLevel: 1},
		{Timestamp: 16, RawLevel: 2},
	}

	curve, err := Fuse(tb, nil, loudness, 0, 3)
	if err != nil {
		t.Fatalf("Fuse: %v", err)
	}
	// With alpha 0 the excitement equals the loudness series [0, 0, 0, 1]
	// smoothed with k=3: edge buckets average over the window that exists.
	want := []float64{0, 0, 1.0 / 3.0, 0.5}
	for i, w := range want {
		if math.Abs(curve[i].Excitement-w) > 1e-9 {
			t.Fatalf("bucket %d excitement %g, expected %g", i, curve[i].Excitement, w)
		}
	}
}

func TestFuseExcitementStaysInRange(t *testing.T) {
	tb := mustTimeBase(t, 60, 5)

	var sentiment []models.SentimentSample
	var loudness []models.LoudnessSample
	for i := 0; i < 40; i++ {
		ts := float64(i) * 1.5
		sentiment = append(sentiment, models.SentimentSample{Timestamp: ts, RawScore: float64(i%7) - 3})
		loudness = append(loudness, models.LoudnessSample{Timestamp: ts, RawLevel: float64((i * 13) % 11)})
	}

	curve, err := Fuse(tb, sentiment, loudness, 0.7, 5)
	if err != nil {
		t.Fatalf("Fuse: %v", err)
	}
	for i, b := range curve {
		if b.Excitement < 0 || b.Excitement > 1 {
			t.Fatalf("bucket %d excitement out of range: %g", i, b.Excitement)
		}
	}
}

func TestFuseInsufficientSignal(t *testing.T) {
	tb := mustTimeBase(t, 60, 5)
	if _, err := Fuse(tb, nil, nil, 0.5, 3); !errors.Is(err, models.ErrInsufficientSignal) {
		t.Fatalf("expected insufficient signal error, got %v", err)
	}
}

func TestFuseSingleStreamSucceeds(t *testing.T) {
	tb := mustTimeBase(t, 10, 5)
	sentiment := []models.SentimentSample{{Timestamp: 3, RawScore: 2}}
	curve, err := Fuse(tb, sentiment, nil, 0.5, 1)
	if err != nil {
		t.Fatalf("one empty stream should not fail: %v", err)
	}
	if len(curve) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(curve))
	}
}
