package processor

// DetectPeaks scans a smoothed excitement sequence and returns the indices of
// highlight-candidate buckets, in order. A bucket is marked when it is a
// strict local maximum among its immediate neighbors, its value exceeds the
// absolute threshold, and it sits at least minSpacing buckets after the
// previously marked peak. A plateau of equal values counts as one maximum and
// only its first bucket is marked.
//
// An empty result is valid: a dull match simply has no highlight-worthy
// moments.
func DetectPeaks(values []float64, threshold float64, minSpacing int) []int {
	peaks := []int{}
	n := len(values)
	if n == 0 {
		return peaks
	}

	i := 0
	for i < n {
		// Find the end of the plateau starting at i.
		j := i + 1
		for j < n && values[j] == values[i] {
			j++
		}

		risesBefore := i == 0 || values[i] > values[i-1]
		fallsAfter := j == n || values[j] < values[i]

		if risesBefore && fallsAfter && values[i] > threshold {
			if len(peaks) == 0 || i-peaks[len(peaks)-1] >= minSpacing {
				peaks = append(peaks, i)
			}
		}

		i = j
	}
	return peaks
}
