// README: Pricing service assembles a full quote: factor engine or rule-based fallback, class fare, passenger share and taxes.
package pricing

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"skyfare/internal/clock"
	"skyfare/internal/modules/holiday"
	"skyfare/internal/types"
)

type Service struct {
	engine          *Engine
	fallback        *FallbackPricer
	features        *FeatureExtractor
	calendar        *holiday.Calendar
	sales           *holiday.SaleDetector
	counters        CounterCache
	clock           clock.Clock
	fallbackEnabled bool
	logger          *zap.Logger
}

// ServiceDeps are the collaborators of a Service. Nil Calendar, Sales, Clock and Logger get defaults.
type ServiceDeps struct {
	Engine          *Engine
	Fallback        *FallbackPricer
	Features        *FeatureExtractor
	Calendar        *holiday.Calendar
	Sales           *holiday.SaleDetector
	Counters        CounterCache
	Clock           clock.Clock
	FallbackEnabled bool
	Logger          *zap.Logger
}

func NewService(deps ServiceDeps) *Service {
	s := &Service{
		engine:          deps.Engine,
		fallback:        deps.Fallback,
		features:        deps.Features,
		calendar:        deps.Calendar,
		sales:           deps.Sales,
		counters:        deps.Counters,
		clock:           deps.Clock,
		fallbackEnabled: deps.FallbackEnabled,
		logger:          deps.Logger,
	}
	if s.calendar == nil {
		s.calendar = holiday.NewCalendar()
	}
	if s.sales == nil {
		s.sales = holiday.NewSaleDetector()
	}
	if s.clock == nil {
		s.clock = clock.NewSystem()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Quote prices one passenger seat. The only error returned is ErrInvalidDate.
func (s *Service) Quote(ctx context.Context, pctx PricingContext) (PriceQuote, error) {
	if pctx.BookingDate.IsZero() {
		pctx.BookingDate = s.clock.Now()
	}
	if pctx.PassengerType == "" {
		pctx.PassengerType = PassengerAdult
	}

	features, err := s.features.ModelFeatures(pctx)
	if err != nil {
		return PriceQuote{}, err
	}
	res := s.engine.PriceForUser(ctx, pctx, features)

	q := PriceQuote{
		ID:            types.NewID(),
		SeatClass:     pctx.SeatClass.Name,
		PassengerType: pctx.PassengerType,
		Currency:      types.CurrencyPHP,
		QuotedAt:      s.clock.Now(),
	}

	if !res.ModelAvailable && s.fallbackEnabled && s.fallback != nil {
		fr, err := s.fallback.Price(ctx, pctx)
		if err != nil {
			return PriceQuote{}, err
		}
		q.Source = SourceRuleBased
		q.BasePrice = pctx.Flight.BasePrice
		q.FinalPrice = fr.Price
		q.Factors = fr.Factors
		q.SeatClassFare = fr.Price
		q.Degraded = append([]string{degradedBasePrice}, fr.Features.Degraded...)
	} else {
		q.Source = SourceModel
		q.BasePrice = res.BasePrice
		q.FinalPrice = res.FinalPrice
		q.Factors = res.Factors
		q.SeatClassFare = RoundSeatClassPrice(PredictSeatClassPrice(res.FinalPrice, pctx.SeatClass.Name))
		q.Degraded = res.Degraded
	}

	q.RoundedFare = types.RoundCents(q.SeatClassFare * PassengerMultiplier(pctx.PassengerType))
	q.Taxes = AssembleTaxes(q.RoundedFare, taxInputFor(pctx.Flight))
	q.TotalWithTaxes = types.RoundCents(q.RoundedFare + q.Taxes.Total)
	q.Signals = s.signals(pctx)

	s.logger.Debug("quote assembled",
		zap.String("quote_id", string(q.ID)),
		zap.String("flight", pctx.Flight.FlightNumber),
		zap.String("source", string(q.Source)),
		zap.Float64("total", q.TotalWithTaxes),
	)
	return q, nil
}

func (s *Service) signals(pctx PricingContext) Signals {
	dep := pctx.Flight.Departure.In(s.features.loc)
	booked := pctx.BookingDate.In(s.features.loc)
	return Signals{
		Holiday:           s.calendar.Impact(dep),
		SaleWindow:        s.sales.IsLikelySalePeriod(booked),
		SaleImpact:        s.sales.SaleImpact(booked, dep),
		RouteFiestaFactor: s.calendar.RouteFiestaFactor(pctx.Flight.Origin.Code, pctx.Flight.Destination.Code, dep),
		SeasonalFactor:    s.calendar.SeasonalFactor(int(dep.Month())),
	}
}

// RecordSearch bumps the demand counter read by the demand factor and returns the new count.
func (s *Service) RecordSearch(ctx context.Context, flightNumber string) (int, error) {
	if s.counters == nil {
		return 0, fmt.Errorf("%w: no counter cache", ErrLookup)
	}
	key := searchKey(flightNumber)
	n, err := s.counters.Get(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("%w: search counter: %v", ErrLookup, err)
	}
	n++
	if err := s.counters.Set(ctx, key, n, searchCounterTTL); err != nil {
		return 0, fmt.Errorf("%w: search counter update: %v", ErrLookup, err)
	}
	return n, nil
}
