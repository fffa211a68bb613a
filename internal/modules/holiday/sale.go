// README: Seat-sale window heuristics used for historical price analysis.
package holiday

import "time"

const (
	strongSaleDiscount = 0.50
	normalSaleDiscount = 0.30
	saleLeadDays       = 60
)

// SaleDetector estimates whether a date falls inside a historical seat-sale (piso fare) period.
type SaleDetector struct{}

func NewSaleDetector() *SaleDetector {
	return &SaleDetector{}
}

func (s *SaleDetector) IsLikelySalePeriod(date time.Time) SaleWindow {
	y, m, dd := date.Date()
	likelihood := LikelihoodLow

	if saleMonths[m] {
		likelihood = LikelihoodMedium
		if dd <= 7 || (dd >= 15 && dd <= 18) {
			likelihood = LikelihoodHigh
		}
	}
	if isPayday(d(y, m, dd)) {
		likelihood = LikelihoodHigh
	}

	discount := normalSaleDiscount
	if likelihood == LikelihoodHigh {
		discount = strongSaleDiscount
	}
	return SaleWindow{
		IsSalePeriod:     likelihood == LikelihoodMedium || likelihood == LikelihoodHigh,
		Likelihood:       likelihood,
		ExpectedDiscount: discount,
	}
}

// SaleImpact returns the price multiplier credited to a booking made during a sale window.
// Only far-out bookings made in a strong sale window get the discount.
func (s *SaleDetector) SaleImpact(bookingDate, departureDate time.Time) float64 {
	w := s.IsLikelySalePeriod(bookingDate)
	if !w.IsSalePeriod {
		return 1.0
	}
	by, bm, bd := bookingDate.Date()
	dy, dm, dday := departureDate.Date()
	days := daysBetween(d(by, bm, bd), d(dy, dm, dday))
	if days >= saleLeadDays && w.Likelihood == LikelihoodHigh {
		return 1.0 - w.ExpectedDiscount
	}
	return 1.0
}
