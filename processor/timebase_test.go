package processor

import (
	"errors"
	"math"
	"testing"

	"matchflow/models"
)

func TestTimeBaseBucketsCoverDuration(t *testing.T) {
	cases := []struct {
		duration float64
		width    float64
	}{
		{duration: 5400, width: 5},
		{duration: 61, width: 5},
		{duration: 10, width: 3},
		{duration: 2.5, width: 5},
	}

	for _, c := range cases {
		tb, err := NewTimeBase(c.duration, c.width)
		if err != nil {
			t.Fatalf("NewTimeBase(%g, %g): %v", c.duration, c.width, err)
		}
		buckets := tb.Buckets()

		want := int(math.Ceil(c.duration / c.width))
		if len(buckets) != want {
			t.Fatalf("duration %g width %g: expected %d buckets, got %d", c.duration, c.width, want, len(buckets))
		}
		if buckets[0].Start != 0 {
			t.Fatalf("first bucket starts at %g, expected 0", buckets[0].Start)
		}
		if last := buckets[len(buckets)-1]; last.End != c.duration {
			t.Fatalf("last bucket ends at %g, expected %g", last.End, c.duration)
		}
		for i := 1; i < len(buckets); i++ {
			if buckets[i].Start != buckets[i-1].End {
				t.Fatalf("bucket %d not contiguous: prev end %g, start %g", i, buckets[i-1].End, buckets[i].Start)
			}
			if buckets[i].Index != i {
				t.Fatalf("bucket %d has index %d", i, buckets[i].Index)
			}
		}
	}
}

func TestTimeBaseRejectsInvalidAxis(t *testing.T) {
	if _, err := NewTimeBase(0, 5); !errors.Is(err, models.ErrInvalidConfiguration) {
		t.Fatalf("expected invalid configuration for zero duration, got %v", err)
	}
	if _, err := NewTimeBase(90, 0); !errors.Is(err, models.ErrInvalidConfiguration) {
		t.Fatalf("expected invalid configuration for zero width, got %v", err)
	}
	if _, err := NewTimeBase(90, -1); !errors.Is(err, models.ErrInvalidConfiguration) {
		t.Fatalf("expected invalid configuration for negative width, got %v", err)
	}
}

func TestTimeBaseBucketIndex(t *testing.T) {
	tb, err := NewTimeBase(20, 5)
	if err != nil {
		t.Fatalf("NewTimeBase: %v", err)
	}
	if idx := tb.BucketIndex(0); idx != 0 {
		t.Fatalf("BucketIndex(0) = %d", idx)
	}
	if idx := tb.BucketIndex(4.99); idx != 0 {
		t.Fatalf("BucketIndex(4.99) = %d", idx)
	}
	if idx := tb.BucketIndex(5); idx != 1 {
		t.Fatalf("BucketIndex(5) = %d", idx)
	}
	// A timestamp exactly at the match duration belongs to the last bucket.
	if idx := tb.BucketIndex(20); idx != 3 {
		t.Fatalf("BucketIndex(20) = %d", idx)
	}
}
