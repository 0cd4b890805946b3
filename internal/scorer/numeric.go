package scorer

import (
	"fmt"
	"math"
)

// NumericResult is a numeric proximity outcome.
type NumericResult struct {
	Score       float64
	Explanation string
}

// NumericSimilarity scores two scalar quantities. Both zero means "no
// constraint" and scores 100; exactly one zero is a hard mismatch and
// scores 0. That asymmetry is intentional and relied upon downstream.
// A positive tolerance fraction accepts candidates within
// ideal*(1±tolerance) at full score; otherwise the score is the
// min/max ratio.
func NumericSimilarity(ideal, candidate, tolerance float64) NumericResult {
	if ideal == 0 && candidate == 0 {
		return NumericResult{Score: 100, Explanation: "Both values are 0 (no constraint)"}
	}
	if ideal == 0 || candidate == 0 {
		return NumericResult{
			Score:       0,
			Explanation: fmt.Sprintf("Numeric mismatch: %s vs %s (one value is 0)", formatNum(ideal), formatNum(candidate)),
		}
	}

	if ideal*candidate < 0 {
		return NumericResult{
			Score:       0,
			Explanation: fmt.Sprintf("Numeric mismatch: %s vs %s (opposite signs)", formatNum(ideal), formatNum(candidate)),
		}
	}

	if tolerance > 0 {
		low := ideal * (1 - tolerance)
		high := ideal * (1 + tolerance)
		if low > high {
			low, high = high, low
		}
		if candidate >= low && candidate <= high {
			return NumericResult{
				Score: 100,
				Explanation: fmt.Sprintf("%s within ±%.0f%% of %s",
					formatNum(candidate), tolerance*100, formatNum(ideal)),
			}
		}
	}

	// Magnitude ratio keeps the score in 0..100 for negative pairs too.
	ratio := math.Min(math.Abs(ideal), math.Abs(candidate)) / math.Max(math.Abs(ideal), math.Abs(candidate))
	score := math.Round(ratio * 100)
	return NumericResult{
		Score:       score,
		Explanation: fmt.Sprintf("Numeric similarity: %s vs %s = %.0f%%", formatNum(ideal), formatNum(candidate), score),
	}
}

func formatNum(n float64) string {
	if n == math.Trunc(n) {
		return fmt.Sprintf("%.0f", n)
	}
	return fmt.Sprintf("%g", n)
}
