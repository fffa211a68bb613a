package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundPrice(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"negative", -5, 0},
		{"below first step", 40, 0},
		{"hundreds tier", 450, 499},
		{"hundreds tier upper edge", 999, 999},
		{"five hundreds tier", 1250, 1499},
		{"five hundreds tier rounds up", 5300, 5499},
		{"thousands tier", 12345, 11999},
		{"five thousands tier", 27600, 29999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoundPrice(tt.in))
		})
	}
}

func TestRoundPrice_Idempotent(t *testing.T) {
	for _, x := range []float64{120, 480, 960, 1250, 3333, 7777, 9800, 10400, 15555, 19999, 23000, 88000} {
		once := RoundPrice(x)
		assert.Equal(t, once, RoundPrice(once), "x=%v", x)
	}
}

func TestRoundPrice_CharmEnding(t *testing.T) {
	for x := 1000.0; x < 10000; x += 137 {
		got := RoundPrice(x)
		assert.Equal(t, 499.0, math.Mod(got, 500), "x=%v", x)
	}
	for x := 50.0; x < 1000; x += 37 {
		got := RoundPrice(x)
		assert.Equal(t, 99.0, math.Mod(got, 100), "x=%v", x)
	}
}

func TestRoundSeatClassPrice(t *testing.T) {
	assert.Equal(t, 1500.0, RoundSeatClassPrice(1250))
	assert.Equal(t, 500.0, RoundSeatClassPrice(460))
	assert.Equal(t, 14000.0, RoundSeatClassPrice(14398.2))
	assert.Equal(t, 25000.0, RoundSeatClassPrice(24000))
	assert.Equal(t, 0.0, RoundSeatClassPrice(-1))
}
