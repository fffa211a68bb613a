package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"skyfare/internal/predictor"
)

// ErrInvalidDate is returned when a flight's timestamps cannot produce a feature vector.
var ErrInvalidDate = errors.New("invalid flight timestamps")

const (
	popularityWindow = 90 * 24 * time.Hour
	velocityWindow   = 7 * 24 * time.Hour
)

// FeatureExtractor builds the model feature vector and the rule-based feature set.
// Clock-derived features use the departure time in loc.
type FeatureExtractor struct {
	columns  predictor.Columns
	bookings BookingReader
	loc      *time.Location
	logger   *zap.Logger
}

func NewFeatureExtractor(columns predictor.Columns, bookings BookingReader, loc *time.Location, logger *zap.Logger) *FeatureExtractor {
	if loc == nil {
		loc = ManilaLocation()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeatureExtractor{columns: columns, bookings: bookings, loc: loc, logger: logger}
}

// ManilaLocation returns Asia/Manila, or a fixed +08:00 zone when tzdata is unavailable.
func ManilaLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Manila")
	if err != nil {
		return time.FixedZone("PHT", 8*60*60)
	}
	return loc
}

func validateTimes(f FlightSnapshot) error {
	switch {
	case f.Departure.IsZero():
		return fmt.Errorf("%w: missing departure", ErrInvalidDate)
	case f.Arrival.IsZero():
		return fmt.Errorf("%w: missing arrival", ErrInvalidDate)
	case f.Arrival.Before(f.Departure):
		return fmt.Errorf("%w: arrival %s before departure %s", ErrInvalidDate,
			f.Arrival.Format(time.RFC3339), f.Departure.Format(time.RFC3339))
	}
	return nil
}

// daysUntil counts calendar days in loc from booking to departure; negative once departed.
func daysUntil(booking, departure time.Time, loc *time.Location) int {
	b := booking.In(loc)
	d := departure.In(loc)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	dd := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Round(dd.Sub(bd).Hours() / 24))
}

// ModelFeatures returns the predictor input: days_left, Total_Stops, Journey_day, Journey_month,
// Dep_hour, Dep_min, Arrival_hour, Arrival_min, Duration_hours, Duration_mins, then one-hot
// Airline_*, Source_* and Destination_* columns.
func (e *FeatureExtractor) ModelFeatures(pctx PricingContext) (predictor.Features, error) {
	f := pctx.Flight
	if err := validateTimes(f); err != nil {
		return predictor.Features{}, err
	}

	dep := f.Departure.In(e.loc)
	arr := f.Arrival.In(e.loc)
	dur := f.DurationMinutes()

	var out predictor.Features
	out.Add("days_left", float64(max(daysUntil(pctx.BookingDate, f.Departure, e.loc), 0)))
	out.Add("Total_Stops", float64(f.Stops))
	out.Add("Journey_day", float64(dep.Day()))
	out.Add("Journey_month", float64(dep.Month()))
	out.Add("Dep_hour", float64(dep.Hour()))
	out.Add("Dep_min", float64(dep.Minute()))
	out.Add("Arrival_hour", float64(arr.Hour()))
	out.Add("Arrival_min", float64(arr.Minute()))
	out.Add("Duration_hours", float64(dur/60))
	out.Add("Duration_mins", float64(dur%60))
	e.columns.AppendOneHot(&out, f.Airline.Name, f.Origin.Code, f.Destination.Code)
	return out, nil
}

type LeadTime string

const (
	LeadPromo      LeadTime = "promo"
	LeadEarly      LeadTime = "early"
	LeadStandard   LeadTime = "standard"
	LeadLastMinute LeadTime = "last_minute"
	LeadUrgent     LeadTime = "urgent"
)

// leadTimeAdjustment: positive values are discounts, negative values are surcharges.
func leadTimeAdjustment(daysLeft int) (LeadTime, float64) {
	switch {
	case daysLeft >= 60:
		return LeadPromo, 0.30
	case daysLeft >= 30:
		return LeadEarly, 0.15
	case daysLeft >= 14:
		return LeadStandard, 0
	case daysLeft >= 7:
		return LeadLastMinute, -0.20
	default:
		return LeadUrgent, -0.40
	}
}

// AdvanceMultiplier turns a signed lead-time adjustment into a price multiplier.
func AdvanceMultiplier(adj float64) float64 {
	switch {
	case adj > 0:
		return 1 - adj
	case adj < 0:
		return 1 + math.Abs(adj)
	default:
		return 1
	}
}

func timeOfDay(hour int) (string, float64) {
	switch {
	case (hour >= 6 && hour <= 8) || (hour >= 17 && hour <= 19):
		return "peak", 1.25
	case hour >= 22 || hour <= 4:
		return "off_peak", 0.85
	default:
		return "standard", 1.0
	}
}

func season(month time.Month) (string, float64) {
	switch month {
	case time.December, time.April, time.May:
		return "high", 1.3
	case time.March, time.June, time.October, time.November:
		return "low", 0.9
	default:
		return "regular", 1.0
	}
}

func occupancyDemand(rate float64) float64 {
	switch {
	case rate >= 0.9:
		return 1.5
	case rate >= 0.75:
		return 1.2
	case rate >= 0.5:
		return 1.0
	default:
		return 0.85
	}
}

type holidayPeriod struct {
	startMonth time.Month
	startDay   int
	endMonth   time.Month
	endDay     int
}

var holidayPeriods = []holidayPeriod{
	{time.December, 20, time.January, 5},
	{time.March, 25, time.April, 10},
	{time.October, 28, time.November, 3},
	{time.May, 1, time.May, 5},
}

func (p holidayPeriod) contains(day time.Time) bool {
	md := int(day.Month())*100 + day.Day()
	start := int(p.startMonth)*100 + p.startDay
	end := int(p.endMonth)*100 + p.endDay
	if start <= end {
		return md >= start && md <= end
	}
	return md >= start || md <= end
}

// holidayPeriodDistance reports whether day is inside a holiday period and the days to the
// nearest period start otherwise.
func holidayPeriodDistance(day time.Time) (bool, int) {
	for _, p := range holidayPeriods {
		if p.contains(day) {
			return true, 0
		}
	}
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	best := math.MaxInt
	for _, p := range holidayPeriods {
		for _, y := range []int{d.Year() - 1, d.Year(), d.Year() + 1} {
			start := time.Date(y, p.startMonth, p.startDay, 0, 0, 0, 0, time.UTC)
			n := int(math.Abs(math.Round(start.Sub(d).Hours() / 24)))
			best = min(best, n)
		}
	}
	return false, best
}

// RuleFeatureSet is the input to the rule-based fallback pricer.
type RuleFeatureSet struct {
	DaysLeft          int      `json:"days_left"`
	LeadTime          LeadTime `json:"lead_time_category"`
	AdvanceAdjustment float64  `json:"advance_adjustment"`
	DayOfWeek         string   `json:"day_of_week"`
	IsWeekend         bool     `json:"is_weekend"`
	IsPeakDay         bool     `json:"is_peak_day"`
	TimeOfDay         string   `json:"time_of_day"`
	TimeMultiplier    float64  `json:"time_multiplier"`
	Season            string   `json:"season"`
	SeasonMultiplier  float64  `json:"season_multiplier"`
	RoutePopularity   float64  `json:"route_popularity"`
	OccupancyRate     float64  `json:"occupancy_rate"`
	DemandMultiplier  float64  `json:"demand_multiplier"`
	HistoricalAvg     float64  `json:"historical_avg"`
	HistoricalMin     float64  `json:"historical_min"`
	HistoricalMax     float64  `json:"historical_max"`
	BookingVelocity   float64  `json:"booking_velocity"`
	IsHolidayPeriod   bool     `json:"is_holiday_period"`
	DaysToHoliday     int      `json:"days_to_holiday"`
	ClassMultiplier   float64  `json:"class_multiplier"`
	RouteBasePrice    float64  `json:"route_base_price"`
	Degraded          []string `json:"degraded,omitempty"`
}

// RuleFeatures computes the fallback pricer inputs. Lookup failures degrade the affected
// feature to its neutral value; only invalid timestamps are returned as errors.
func (e *FeatureExtractor) RuleFeatures(ctx context.Context, pctx PricingContext) (RuleFeatureSet, error) {
	f := pctx.Flight
	if err := validateTimes(f); err != nil {
		return RuleFeatureSet{}, err
	}
	dep := f.Departure.In(e.loc)

	var rf RuleFeatureSet
	rf.RouteBasePrice = f.BasePrice
	rf.DaysLeft = max(daysUntil(pctx.BookingDate, f.Departure, e.loc), 0)
	rf.LeadTime, rf.AdvanceAdjustment = leadTimeAdjustment(rf.DaysLeft)
	rf.DayOfWeek = dep.Weekday().String()
	rf.IsWeekend = dep.Weekday() == time.Saturday || dep.Weekday() == time.Sunday
	rf.IsPeakDay = dep.Weekday() == time.Friday || dep.Weekday() == time.Sunday
	rf.TimeOfDay, rf.TimeMultiplier = timeOfDay(dep.Hour())
	rf.Season, rf.SeasonMultiplier = season(dep.Month())
	rf.IsHolidayPeriod, rf.DaysToHoliday = holidayPeriodDistance(dep)

	rf.ClassMultiplier = pctx.SeatClass.PriceMultiplier
	if rf.ClassMultiplier <= 0 {
		rf.ClassMultiplier = SeatClassMultiplier(pctx.SeatClass.Name)
	}

	degrade := func(name string, err error) {
		rf.Degraded = append(rf.Degraded, name)
		e.logger.Warn("rule feature degraded", zap.String("feature", name), zap.Error(err))
	}

	if e.bookings == nil {
		for _, name := range []string{"route_popularity", "historical_price", "booking_velocity"} {
			rf.Degraded = append(rf.Degraded, name)
		}
		rf.HistoricalAvg, rf.HistoricalMin, rf.HistoricalMax = f.BasePrice, f.BasePrice*0.7, f.BasePrice*1.5
	} else {
		if n, err := e.bookings.RouteBookingsSince(ctx, f.RouteID, pctx.BookingDate.Add(-popularityWindow)); err != nil {
			degrade("route_popularity", err)
		} else {
			rf.RoutePopularity = math.Min(math.Max(float64(n)/1000, 0), 1)
		}

		h, err := e.bookings.PriceHistory(ctx, f.RouteID, pctx.SeatClass.ID)
		if err != nil {
			degrade("historical_price", err)
		}
		if err != nil || h.Count == 0 {
			rf.HistoricalAvg, rf.HistoricalMin, rf.HistoricalMax = f.BasePrice, f.BasePrice*0.7, f.BasePrice*1.5
		} else {
			rf.HistoricalAvg, rf.HistoricalMin, rf.HistoricalMax = h.Avg, h.Min, h.Max
		}

		if n, err := e.bookings.RouteBookingsSince(ctx, f.RouteID, pctx.BookingDate.Add(-velocityWindow)); err != nil {
			degrade("booking_velocity", err)
		} else {
			rf.BookingVelocity = float64(n) / 7
		}
	}

	rf.DemandMultiplier = 1.0
	if inv, err := lookupInventory(ctx, e.bookings, pctx); err != nil {
		degrade("occupancy", err)
	} else {
		rf.OccupancyRate = inv.OccupancyRate()
		rf.DemandMultiplier = occupancyDemand(rf.OccupancyRate)
	}
	return rf, nil
}

// lookupInventory prefers the snapshot on the context over a live seat count.
func lookupInventory(ctx context.Context, bookings BookingReader, pctx PricingContext) (InventorySnapshot, error) {
	if pctx.Inventory != nil {
		return *pctx.Inventory, nil
	}
	if bookings == nil {
		return InventorySnapshot{}, fmt.Errorf("%w: no booking reader", ErrLookup)
	}
	inv, err := bookings.SeatCounts(ctx, pctx.Flight.ScheduleID, pctx.SeatClass.ID)
	if err != nil {
		return InventorySnapshot{}, fmt.Errorf("%w: seat counts: %v", ErrLookup, err)
	}
	return inv, nil
}
