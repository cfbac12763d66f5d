package processor

import (
	"fmt"
	"math"

	"matchflow/models"
)

// TimeBase defines the common time axis all signals are projected onto:
// ceil(duration/width) contiguous buckets covering [0, duration].
type TimeBase struct {
	Duration float64
	Width    float64
}

// NewTimeBase validates the axis parameters. It is the only failure point of
// the time base; bucket construction itself cannot fail.
func NewTimeBase(duration, width float64) (*TimeBase, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: match duration must be positive, got %g", models.ErrInvalidConfiguration, duration)
	}
	if width <= 0 {
		return nil, fmt.Errorf("%w: bucket width must be positive, got %g", models.ErrInvalidConfiguration, width)
	}
	return &TimeBase{Duration: duration, Width: width}, nil
}

// NumBuckets returns ceil(duration/width).
func (tb *TimeBase) NumBuckets() int {
	return int(math.Ceil(tb.Duration / tb.Width))
}

// Buckets materializes the axis. Buckets are half-open [start, end) and the
// final bucket's end is clamped to the match duration so the axis covers
// exactly [0, duration].
func (tb *TimeBase) Buckets() []models.TimeBucket {
	n := tb.NumBuckets()
	buckets := make([]models.TimeBucket, n)
	for i := 0; i < n; i++ {
		start := float64(i) * tb.Width
		end := start + tb.Width
		if end > tb.Duration {
			end = tb.Duration
		}
		buckets[i] = models.TimeBucket{Index: i, Start: start, End: end}
	}
	return buckets
}

// BucketIndex maps a timestamp onto its bucket. A timestamp exactly at the
// match duration lands in the last bucket.
func (tb *TimeBase) BucketIndex(ts float64) int {
	idx := int(ts / tb.Width)
	if n := tb.NumBuckets(); idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// Contains reports whether a timestamp lies on the axis.
func (tb *TimeBase) Contains(ts float64) bool {
	return ts >= 0 && ts <= tb.Duration
}
