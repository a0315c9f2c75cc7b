package matching

import "math"

// rangeScore checks value against [lo, hi] where a nil lo means 0 and a nil hi
// means no upper bound. The score peaks at the middle of a bounded range and
// falls off linearly towards both edges.
func rangeScore(value, lo, hi *float64) (bool, int) {
	if value == nil {
		return false, 0
	}

	v := *value
	if (lo != nil && math.IsNaN(*lo)) || (hi != nil && math.IsNaN(*hi)) {
		return false, 0
	}

	minimum := 0.0
	if lo != nil {
		minimum = *lo
	}
	maximum := math.Inf(1)
	if hi != nil {
		maximum = *hi
	}

	if math.IsNaN(v) || v < minimum || v > maximum {
		return false, 0
	}

	if math.IsInf(maximum, 1) {
		return true, 100
	}

	width := maximum - minimum
	if width <= 0 {
		return true, 100
	}

	position := (v - minimum) / width
	score := 100 - math.Abs(position-0.5)*100

	return true, clampScore(score)
}

func clampScore(score float64) int {
	if math.IsNaN(score) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, score))))
}

func ratioScore(found, total int) int {
	if total <= 0 {
		return 0
	}
	return clampScore(float64(found) / float64(total) * 100)
}
