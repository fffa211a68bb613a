package pricing

import "skyfare/internal/types"

const (
	travelTaxInternational = 1620.0
	terminalFeeDomestic    = 200.0
	terminalFeeIntl        = 550.0
	securityFee            = 50.0
	vatRate                = 0.12

	fuelShortHaul  = 200.0
	fuelMediumHaul = 350.0
	fuelLongHaul   = 500.0
)

type TaxInput struct {
	IsInternational bool
	IsDomestic      bool
	DurationMinutes int
}

func taxInputFor(f FlightSnapshot) TaxInput {
	return TaxInput{
		IsInternational: f.IsInternational,
		IsDomestic:      f.IsDomestic,
		DurationMinutes: f.DurationMinutes(),
	}
}

// AssembleTaxes computes the per-passenger tax lines added on top of fare.
func AssembleTaxes(fare float64, in TaxInput) TaxBreakdown {
	var lines []TaxLine
	if in.IsInternational {
		lines = append(lines, TaxLine{Name: "travel_tax", Amount: travelTaxInternational})
	}

	terminal := terminalFeeDomestic
	if in.IsInternational {
		terminal = terminalFeeIntl
	}
	lines = append(lines,
		TaxLine{Name: "terminal_fee", Amount: terminal},
		TaxLine{Name: "security_fee", Amount: securityFee},
	)

	if in.IsDomestic {
		lines = append(lines, TaxLine{Name: "vat", Amount: types.RoundCents(fare * vatRate)})
	}

	fuel := fuelLongHaul
	switch {
	case in.DurationMinutes < 60:
		fuel = fuelShortHaul
	case in.DurationMinutes < 120:
		fuel = fuelMediumHaul
	}
	lines = append(lines, TaxLine{Name: "fuel_surcharge", Amount: fuel})

	var total float64
	for _, l := range lines {
		total += l.Amount
	}
	return TaxBreakdown{Lines: lines, Total: types.RoundCents(total)}
}

// PassengerMultiplier is the fare share charged per passenger type, applied before taxes.
func PassengerMultiplier(p PassengerType) float64 {
	switch p {
	case PassengerChild:
		return 0.75
	case PassengerInfant:
		return 0.10
	default:
		return 1.0
	}
}

// ParsePassengerType accepts the canonical names case-insensitively; empty means Adult.
func ParsePassengerType(s string) (PassengerType, bool) {
	switch normalizeClassName(s) {
	case "", "adult":
		return PassengerAdult, true
	case "child":
		return PassengerChild, true
	case "infant":
		return PassengerInfant, true
	}
	return "", false
}
