package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeatClassMultiplier(t *testing.T) {
	tests := []struct {
		name string
		want float64
	}{
		{"Business Class", 1.8},
		{"business", 1.8},
		{"PREMIUM economy", 1.35},
		{"Premium", 1.35},
		{"first class", 2.4},
		{" Economy ", 1.0},
		{"Deluxe Suite", 1.0},
		{"", 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SeatClassMultiplier(tt.name))
		})
	}
	assert.InDelta(t, 1800.0, PredictSeatClassPrice(1000, "Business Class"), 1e-9)
}

func TestAssembleTaxes(t *testing.T) {
	t.Run("domestic short haul", func(t *testing.T) {
		got := AssembleTaxes(1000, TaxInput{IsDomestic: true, DurationMinutes: 45})
		assert.Equal(t, 0.0, got.Amount("travel_tax"))
		assert.Equal(t, 200.0, got.Amount("terminal_fee"))
		assert.Equal(t, 50.0, got.Amount("security_fee"))
		assert.Equal(t, 120.0, got.Amount("vat"))
		assert.Equal(t, 200.0, got.Amount("fuel_surcharge"))
		assert.Equal(t, 570.0, got.Total)
	})

	t.Run("domestic medium haul", func(t *testing.T) {
		got := AssembleTaxes(10500, TaxInput{IsDomestic: true, DurationMinutes: 80})
		assert.Equal(t, 1260.0, got.Amount("vat"))
		assert.Equal(t, 350.0, got.Amount("fuel_surcharge"))
		assert.Equal(t, 1860.0, got.Total)
	})

	t.Run("international long haul", func(t *testing.T) {
		got := AssembleTaxes(8000, TaxInput{IsInternational: true, DurationMinutes: 240})
		assert.Equal(t, 1620.0, got.Amount("travel_tax"))
		assert.Equal(t, 550.0, got.Amount("terminal_fee"))
		assert.Equal(t, 0.0, got.Amount("vat"))
		assert.Equal(t, 500.0, got.Amount("fuel_surcharge"))
		assert.Equal(t, 2720.0, got.Total)
		assert.Equal(t, "travel_tax", got.Lines[0].Name)
	})
}

func TestPassengerMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, PassengerMultiplier(PassengerAdult))
	assert.Equal(t, 0.75, PassengerMultiplier(PassengerChild))
	assert.Equal(t, 0.10, PassengerMultiplier(PassengerInfant))

	for _, fare := range []float64{1, 499, 1499, 9999, 25000} {
		child := fare * PassengerMultiplier(PassengerChild)
		adult := fare * PassengerMultiplier(PassengerAdult)
		assert.NotEqual(t, adult, child, "fare=%v", fare)
	}
}

func TestParsePassengerType(t *testing.T) {
	for in, want := range map[string]PassengerType{"": PassengerAdult, "adult": PassengerAdult, "Child": PassengerChild, "INFANT": PassengerInfant} {
		got, ok := ParsePassengerType(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got)
	}
	_, ok := ParsePassengerType("senior")
	assert.False(t, ok)
}
