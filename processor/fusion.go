package processor

import (
	"fmt"

	"matchflow/models"
)

// Fuse projects both signal streams onto the time base and combines them into
// one excitement value per bucket:
//
//	excitement = alpha*sentiment_norm + (1-alpha)*loudness_norm
//
// Samples are min-max normalized per match, averaged within their bucket,
// and buckets without fresh data carry the nearest prior bucket's value
// forward (hold-last-value), falling back to a 0.5 neutral baseline before
// the first sample. The blended curve is smoothed with a centered moving
// average of odd width smoothK; edge buckets shrink the window rather than
// reflect or pad, so no data is invented.
//
// Both streams empty for the whole match is an upstream pipeline problem and
// fails with ErrInsufficientSignal instead of returning a flat curve.
func Fuse(tb *TimeBase, sentiment []models.SentimentSample, loudness []models.LoudnessSample, alpha float64, smoothK int) ([]models.FusedBucket, error) {
	if len(sentiment) == 0 && len(loudness) == 0 {
		return nil, fmt.Errorf("%w: no sentiment or loudness samples for the whole match", models.ErrInsufficientSignal)
	}

	buckets := tb.Buckets()
	n := len(buckets)

	sentNorm := bucketMeans(tb, n, sentimentPoints(sentiment))
	loudNorm := bucketMeans(tb, n, loudnessPoints(loudness))

	sentSeries := fillForward(sentNorm, n)
	loudSeries := fillForward(loudNorm, n)

	blended := make([]float64, n)
	for i := 0; i < n; i++ {
		blended[i] = alpha*sentSeries[i] + (1-alpha)*loudSeries[i]
	}

	smoothed := smooth(blended, smoothK)

	fused := make([]models.FusedBucket, n)
	for i := 0; i < n; i++ {
		fused[i] = models.FusedBucket{
			Bucket:        buckets[i],
			Excitement:    smoothed[i],
			SentimentNorm: sentSeries[i],
			LoudnessNorm:  loudSeries[i],
		}
	}
	return fused, nil
}

type point struct {
	ts    float64
	value float64
}

func sentimentPoints(samples []models.SentimentSample) []point {
	if len(samples) == 0 {
		return nil
	}
	raw := make([]float64, len(samples))
	for i, s := range samples {
		raw[i] = s.RawScore
	}
	norm := Normalize(raw)
	pts := make([]point, len(samples))
	for i, s := range samples {
		pts[i] = point{ts: s.Timestamp, value: norm[i]}
	}
	return pts
}

func loudnessPoints(samples []models.LoudnessSample) []point {
	if len(samples) == 0 {
		return nil
	}
	raw := make([]float64, len(samples))
	for i, s := range samples {
		raw[i] = s.RawLevel
	}
	norm := Normalize(raw)
	pts := make([]point, len(samples))
	for i, s := range samples {
		pts[i] = point{ts: s.Timestamp, value: norm[i]}
	}
	return pts
}

// bucketMeans averages the normalized samples falling inside each bucket.
// A nil entry means the bucket had no fresh data.
func bucketMeans(tb *TimeBase, n int, pts []point) []*float64 {
	sums := make([]float64, n)
	counts := make([]int, n)
	for _, p := range pts {
		idx := tb.BucketIndex(p.ts)
		sums[idx] += p.value
		counts[idx]++
	}
	out := make([]*float64, n)
	for i := 0; i < n; i++ {
		if counts[i] > 0 {
			mean := sums[i] / float64(counts[i])
			out[i] = &mean
		}
	}
	return out
}

// fillForward resolves empty buckets: carry the nearest prior bucket's value
// (hold-last-value), or 0.5 before the stream's first sample.
func fillForward(values []*float64, n int) []float64 {
	out := make([]float64, n)
	last := 0.5
	for i := 0; i < n; i++ {
		if values[i] != nil {
			last = *values[i]
		}
		out[i] = last
	}
	return out
}

// smooth applies a centered moving average of odd width k. Edge buckets use
// whatever part of the window exists instead of reflected or padded values.
func smooth(values []float64, k int) []float64 {
	n := len(values)
	if k <= 1 || n == 0 {
		out := make([]float64, n)
		copy(out, values)
		return out
	}

	half := k / 2
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > n-1 {
			hi = n - 1
		}
		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}
