package pricing

import (
	"context"
	"math"

	"go.uber.org/zap"
)

const (
	velocitySurgeThreshold = 5.0
	velocitySurgeRate      = 0.05
	velocitySurgeCap       = 0.3
	popularityWeight       = 0.2
	holidayPeriodFactor    = 1.4
	nearHolidayFactor      = 1.2
	nearHolidayDays        = 3
	fallbackStep           = 50
	fallbackFloorShare     = 0.5
)

// FallbackPricer prices directly from the route base price when no model is available.
type FallbackPricer struct {
	features *FeatureExtractor
	logger   *zap.Logger
}

func NewFallbackPricer(features *FeatureExtractor, logger *zap.Logger) *FallbackPricer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackPricer{features: features, logger: logger}
}

type FallbackResult struct {
	Price    float64
	Factors  []Factor
	Features RuleFeatureSet
}

// Price returns the class-adjusted fare rounded to the nearest 50 and floored at half the
// route base price. Only ErrInvalidDate is returned.
func (p *FallbackPricer) Price(ctx context.Context, pctx PricingContext) (FallbackResult, error) {
	rf, err := p.features.RuleFeatures(ctx, pctx)
	if err != nil {
		return FallbackResult{}, err
	}
	price, factors := composeFallback(rf)
	p.logger.Debug("rule based price",
		zap.String("flight", pctx.Flight.FlightNumber),
		zap.String("lead_time", string(rf.LeadTime)),
		zap.Float64("price", price),
	)
	return FallbackResult{Price: price, Factors: factors, Features: rf}, nil
}

func composeFallback(rf RuleFeatureSet) (float64, []Factor) {
	factors := []Factor{
		{"class_multiplier", rf.ClassMultiplier},
		{"advance_booking", AdvanceMultiplier(rf.AdvanceAdjustment)},
		{"time_of_day", rf.TimeMultiplier},
		{"season", rf.SeasonMultiplier},
		{"demand", rf.DemandMultiplier},
		{"popularity", 1 + rf.RoutePopularity*popularityWeight},
	}
	if rf.BookingVelocity > velocitySurgeThreshold {
		surge := math.Min(rf.BookingVelocity*velocitySurgeRate, velocitySurgeCap)
		factors = append(factors, Factor{"velocity_surge", 1 + surge})
	}
	switch {
	case rf.IsHolidayPeriod:
		factors = append(factors, Factor{"holiday", holidayPeriodFactor})
	case rf.DaysToHoliday <= nearHolidayDays:
		factors = append(factors, Factor{"holiday", nearHolidayFactor})
	}

	price := rf.RouteBasePrice
	for _, f := range factors {
		price *= f.Value
	}
	price = math.Round(price/fallbackStep) * fallbackStep
	return math.Max(price, rf.RouteBasePrice*fallbackFloorShare), factors
}
