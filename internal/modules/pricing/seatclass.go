package pricing

import "strings"

var seatClassMultipliers = map[string]float64{
	"economy":               1.0,
	"economy_class":         1.0,
	"coach":                 1.0,
	"standard":              1.0,
	"premium_economy":       1.35,
	"premium_economy_class": 1.35,
	"premium":               1.35,
	"premium_eco":           1.35,
	"business":              1.8,
	"business_class":        1.8,
	"first":                 2.4,
	"first_class":           2.4,
}

func normalizeClassName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// SeatClassMultiplier looks up a class name case-insensitively; unknown classes price at 1.0.
func SeatClassMultiplier(className string) float64 {
	if m, ok := seatClassMultipliers[normalizeClassName(className)]; ok {
		return m
	}
	return 1.0
}

// PredictSeatClassPrice applies the class multiplier table to a base fare.
func PredictSeatClassPrice(basePrice float64, className string) float64 {
	return basePrice * SeatClassMultiplier(className)
}
