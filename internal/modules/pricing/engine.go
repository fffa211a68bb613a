package pricing

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"skyfare/internal/clock"
	"skyfare/internal/predictor"
)

// ErrLookup marks a failed booking, seat or counter read behind a factor.
var ErrLookup = errors.New("pricing lookup failed")

const (
	FactorUser      = "user_factor"
	FactorSession   = "session_factor"
	FactorDemand    = "demand_factor"
	FactorTime      = "time_factor"
	FactorInventory = "inventory_factor"
	FactorRandom    = "randomization_factor"

	degradedBasePrice = "base_price"
	degradedConfig    = "config"

	hashBuckets  = 5
	hashFloor    = 0.98
	hashStep     = 0.01
	maxVisitBump = 5
)

// BasePricer wraps the predictor; an unavailable or failing model prices at 0.
type BasePricer struct {
	predictor predictor.Predictor
}

func NewBasePricer(p predictor.Predictor) *BasePricer {
	if p == nil {
		p = predictor.Unavailable{}
	}
	return &BasePricer{predictor: p}
}

func (b *BasePricer) Price(ctx context.Context, features predictor.Features) (float64, error) {
	price, err := b.predictor.Predict(ctx, features)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, fmt.Errorf("%w: unusable prediction %v", predictor.ErrUnavailable, price)
	}
	return price, nil
}

// FactorResult is the output of the multiplicative factor pipeline.
type FactorResult struct {
	BasePrice      float64
	FinalPrice     float64
	Factors        []Factor
	Degraded       []string
	ModelAvailable bool
}

type factorOutcome struct {
	value float64
	err   error
}

// Engine composes the factor chain on top of the model base price. It never fails:
// every factor that cannot be computed falls back to its neutral value and is reported.
type Engine struct {
	base     *BasePricer
	config   ConfigProvider
	counters CounterCache
	bookings BookingReader
	clock    clock.Clock
	loc      *time.Location
	random   func() float64
	logger   *zap.Logger
}

type EngineOption func(*Engine)

// WithRandomSource replaces the uniform [0,1) source used for anonymous-session noise.
func WithRandomSource(fn func() float64) EngineOption {
	return func(e *Engine) { e.random = fn }
}

func WithClock(c clock.Clock) EngineOption {
	return func(e *Engine) { e.clock = c }
}

func WithLocation(loc *time.Location) EngineOption {
	return func(e *Engine) { e.loc = loc }
}

func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

func NewEngine(base *BasePricer, config ConfigProvider, counters CounterCache, bookings BookingReader, opts ...EngineOption) *Engine {
	e := &Engine{
		base:     base,
		config:   config,
		counters: counters,
		bookings: bookings,
		clock:    clock.NewSystem(),
		loc:      ManilaLocation(),
		random:   rand.Float64,
		logger:   zap.NewNop(),
	}
	if e.base == nil {
		e.base = NewBasePricer(nil)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PriceForUser runs base price, user, session, demand, time, inventory and randomization
// factors in that order and charm-rounds the product.
func (e *Engine) PriceForUser(ctx context.Context, pctx PricingContext, features predictor.Features) FactorResult {
	if pctx.BookingDate.IsZero() {
		pctx.BookingDate = e.clock.Now()
	}
	var res FactorResult

	cfg, err := loadConfig(ctx, e.config)
	if err != nil {
		e.degrade(&res, degradedConfig, err)
	}

	base, err := e.base.Price(ctx, features)
	if err != nil {
		e.degrade(&res, degradedBasePrice, err)
	} else {
		res.ModelAvailable = true
	}
	res.BasePrice = base

	steps := []struct {
		name string
		fn   func() factorOutcome
	}{
		{FactorUser, func() factorOutcome { return e.userFactor(ctx, cfg, pctx) }},
		{FactorSession, func() factorOutcome { return e.sessionFactor(ctx, pctx) }},
		{FactorDemand, func() factorOutcome { return e.demandFactor(ctx, cfg, pctx) }},
		{FactorTime, func() factorOutcome { return e.timeFactor(cfg, pctx) }},
		{FactorInventory, func() factorOutcome { return e.inventoryFactor(ctx, cfg, pctx) }},
		{FactorRandom, func() factorOutcome { return e.randomFactor(pctx) }},
	}

	price := base
	for _, s := range steps {
		out := s.fn()
		if out.err != nil {
			e.degrade(&res, s.name, out.err)
		}
		res.Factors = append(res.Factors, Factor{Name: s.name, Value: out.value})
		price *= out.value
	}
	res.FinalPrice = RoundPrice(price)

	e.logger.Debug("factor pipeline",
		zap.String("flight", pctx.Flight.FlightNumber),
		zap.Float64("base_price", res.BasePrice),
		zap.Float64("final_price", res.FinalPrice),
		zap.Strings("degraded", res.Degraded),
	)
	return res
}

func (e *Engine) degrade(res *FactorResult, name string, err error) {
	res.Degraded = append(res.Degraded, name)
	e.logger.Warn("pricing factor degraded", zap.String("factor", name), zap.Error(err))
}

func (e *Engine) userFactor(ctx context.Context, cfg Configuration, pctx PricingContext) factorOutcome {
	if pctx.Anonymous() {
		return factorOutcome{value: cfg.AnonymousUserFactor}
	}
	if e.bookings == nil {
		return factorOutcome{value: 1.0, err: fmt.Errorf("%w: no booking reader", ErrLookup)}
	}
	n, err := e.bookings.CompletedBookingCount(ctx, pctx.UserID)
	if err != nil {
		return factorOutcome{value: 1.0, err: fmt.Errorf("%w: completed bookings: %v", ErrLookup, err)}
	}
	prior := float64(n)
	switch {
	case n == 0:
		return factorOutcome{value: cfg.NewUserFactor}
	case prior >= cfg.LoyalUserMinBookings:
		return factorOutcome{value: cfg.LoyalUserFactor}
	case prior >= cfg.ReturningUserMinBookings:
		return factorOutcome{value: cfg.ReturningUserFactor}
	default:
		return factorOutcome{value: 1.0}
	}
}

// HashFactor maps key to one of five buckets 0.98, 0.99, 1.00, 1.01, 1.02 using the last
// three bytes of its MD5 digest read as a big-endian integer.
func HashFactor(key string) float64 {
	sum := md5.Sum([]byte(key))
	n := int(sum[13])<<16 | int(sum[14])<<8 | int(sum[15])
	return hashFloor + hashStep*float64(n%hashBuckets)
}

func (e *Engine) sessionFactor(ctx context.Context, pctx PricingContext) factorOutcome {
	if pctx.SessionID == "" {
		return factorOutcome{value: 1.0}
	}
	factor := HashFactor(pctx.SessionID + "_" + pctx.Flight.FlightNumber)
	if e.counters == nil {
		return factorOutcome{value: factor, err: fmt.Errorf("%w: no counter cache", ErrLookup)}
	}

	key := visitKey(pctx.SessionID, pctx.Flight.FlightNumber)
	visits, err := e.counters.Get(ctx, key)
	if err != nil {
		return factorOutcome{value: factor, err: fmt.Errorf("%w: visit counter: %v", ErrLookup, err)}
	}
	if visits > 0 {
		factor *= 1 + float64(min(visits, maxVisitBump))*0.01
	}
	if err := e.counters.Set(ctx, key, visits+1, visitCounterTTL); err != nil {
		return factorOutcome{value: factor, err: fmt.Errorf("%w: visit counter update: %v", ErrLookup, err)}
	}
	return factorOutcome{value: factor}
}

func (e *Engine) demandFactor(ctx context.Context, cfg Configuration, pctx PricingContext) factorOutcome {
	var out factorOutcome
	search := 1.0
	if e.counters == nil {
		out.err = fmt.Errorf("%w: no counter cache", ErrLookup)
	} else if n, err := e.counters.Get(ctx, searchKey(pctx.Flight.FlightNumber)); err != nil {
		out.err = fmt.Errorf("%w: search counter: %v", ErrLookup, err)
	} else {
		search = searchTier(cfg, float64(n))
	}

	days := float64(daysUntil(pctx.BookingDate, pctx.Flight.Departure, e.loc))
	out.value = search * daysTier(cfg, days)
	return out
}

func searchTier(cfg Configuration, searches float64) float64 {
	switch {
	case searches >= cfg.SearchThresholdHigh:
		return cfg.SearchFactorHigh
	case searches >= cfg.SearchThresholdMedium:
		return cfg.SearchFactorMedium
	case searches >= cfg.SearchThresholdLow:
		return cfg.SearchFactorLow
	default:
		return 1.0
	}
}

func daysTier(cfg Configuration, days float64) float64 {
	switch {
	case days < cfg.DaysThresholdCritical:
		return cfg.DaysFactorCritical
	case days < cfg.DaysThresholdNear:
		return cfg.DaysFactorNear
	case days < cfg.DaysThresholdMedium:
		return cfg.DaysFactorMedium
	case days > cfg.DaysThresholdFar:
		return cfg.DaysFactorFar
	default:
		return 1.0
	}
}

func (e *Engine) timeFactor(cfg Configuration, pctx PricingContext) factorOutcome {
	dep := pctx.Flight.Departure.In(e.loc)
	factor := 1.0

	if h := dep.Hour(); (h >= 7 && h <= 9) || (h >= 17 && h <= 19) {
		factor *= cfg.PeakHourFactor
	}
	if wd := dep.Weekday(); wd == time.Saturday || wd == time.Sunday {
		factor *= cfg.WeekendFactor
	}
	switch dep.Month() {
	case time.December, time.March, time.October:
		factor *= cfg.PeakMonthFactor
	}
	if dep.Month() == time.December && dep.Day() >= 20 {
		factor *= cfg.HolidaySeasonFactor
	}
	return factorOutcome{value: factor}
}

func (e *Engine) inventoryFactor(ctx context.Context, cfg Configuration, pctx PricingContext) factorOutcome {
	inv, err := lookupInventory(ctx, e.bookings, pctx)
	if err != nil {
		return factorOutcome{value: 1.0, err: err}
	}
	rate := inv.OccupancyRate()
	switch {
	case rate > cfg.OccupancyThresholdHigh:
		return factorOutcome{value: cfg.OccupancyFactorHigh}
	case rate > cfg.OccupancyThresholdMedium:
		return factorOutcome{value: cfg.OccupancyFactorMedium}
	case rate < cfg.OccupancyThresholdLow:
		return factorOutcome{value: cfg.OccupancyFactorLow}
	default:
		return factorOutcome{value: 1.0}
	}
}

func (e *Engine) randomFactor(pctx PricingContext) factorOutcome {
	if pctx.SessionID != "" {
		return factorOutcome{value: HashFactor("random_" + pctx.SessionID)}
	}
	return factorOutcome{value: hashFloor + e.random()*(hashStep*(hashBuckets-1))}
}
