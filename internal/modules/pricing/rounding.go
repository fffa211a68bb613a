package pricing

import "math"

type roundingTier struct {
	below float64
	step  float64
}

// Tiers in ascending order; the last one has no upper bound.
var roundingTiers = []roundingTier{
	{below: 1000, step: 100},
	{below: 10000, step: 500},
	{below: 20000, step: 1000},
	{below: math.Inf(1), step: 5000},
}

func tierStep(x float64) float64 {
	for _, t := range roundingTiers {
		if x < t.below {
			return t.step
		}
	}
	return roundingTiers[len(roundingTiers)-1].step
}

func roundTo(x, step float64) float64 {
	return math.Round(x/step) * step
}

// RoundPrice maps a raw fare to a charm price one peso below a round step:
// 100s under 1,000, 500s under 10,000, 1,000s under 20,000, then 5,000s.
func RoundPrice(x float64) float64 {
	if x <= 0 || math.IsNaN(x) {
		return 0
	}
	return math.Max(roundTo(x, tierStep(x))-1, 0)
}

// RoundSeatClassPrice uses the same tiers without the charm adjustment, for displayed class fares.
func RoundSeatClassPrice(x float64) float64 {
	if x <= 0 || math.IsNaN(x) {
		return 0
	}
	return roundTo(x, tierStep(x))
}
