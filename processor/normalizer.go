package processor

// Normalize rescales a raw series onto [0,1] using min-max scaling computed
// over the whole series. Scaling is per match on purpose: absolute loudness
// or sentiment units are not comparable across recordings, but relative peaks
// within one match are.
//
// A constant series normalizes to 0.5 everywhere, which avoids both a divide
// by zero and a bias toward either endpoint.
func Normalize(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	out := make([]float64, len(values))
	if min == max {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}

	span := max - min
	for i, v := range values {
		out[i] = (v - min) / span
	}
	return out
}
