// README: Shared value types: identifiers and peso amounts.
package types

import (
	"math"

	"github.com/google/uuid"
)

// CurrencyPHP is the only currency fares are quoted in.
const CurrencyPHP = "PHP"

type ID string

// NewID returns a random identifier for quotes and other transient records.
func NewID() ID {
	return ID(uuid.NewString())
}

// RoundCents rounds a peso amount to two decimal places, half away from zero.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
