package pricing

import (
	"context"
	"errors"
	"time"

	"skyfare/internal/predictor"
	"skyfare/internal/types"
)

var errBackend = errors.New("backend down")

type fixedPredictor struct {
	price float64
	err   error
}

func (p fixedPredictor) Predict(context.Context, predictor.Features) (float64, error) {
	return p.price, p.err
}

type failingConfig struct{}

func (failingConfig) Load(context.Context) (Configuration, error) {
	return Configuration{}, errBackend
}

type counterWrite struct {
	key   string
	value int
	ttl   time.Duration
}

type fakeCounters struct {
	values map[string]int
	writes []counterWrite
	err    error
}

func newFakeCounters(values map[string]int) *fakeCounters {
	if values == nil {
		values = map[string]int{}
	}
	return &fakeCounters{values: values}
}

func (c *fakeCounters) Get(_ context.Context, key string) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	return c.values[key], nil
}

func (c *fakeCounters) Set(_ context.Context, key string, value int, ttl time.Duration) error {
	if c.err != nil {
		return c.err
	}
	c.values[key] = value
	c.writes = append(c.writes, counterWrite{key, value, ttl})
	return nil
}

type fakeBookings struct {
	completed int
	inventory InventorySnapshot
	history   PriceHistory
	// routeBookings answers RouteBookingsSince by window length in days.
	routeBookings map[int]int
	err           error
	now           time.Time
}

func (b *fakeBookings) CompletedBookingCount(context.Context, types.ID) (int, error) {
	return b.completed, b.err
}

func (b *fakeBookings) SeatCounts(context.Context, types.ID, types.ID) (InventorySnapshot, error) {
	return b.inventory, b.err
}

func (b *fakeBookings) PriceHistory(context.Context, types.ID, types.ID) (PriceHistory, error) {
	return b.history, b.err
}

func (b *fakeBookings) RouteBookingsSince(_ context.Context, _ types.ID, since time.Time) (int, error) {
	if b.err != nil {
		return 0, b.err
	}
	days := int(b.now.Sub(since).Hours()/24 + 0.5)
	return b.routeBookings[days], nil
}

var manila = ManilaLocation()

// domesticFlight departs Saturday 2026-12-26 08:00 Manila time with an 80 minute block.
func domesticFlight() FlightSnapshot {
	return FlightSnapshot{
		FlightNumber:    "5J560",
		ScheduleID:      "sched-1",
		RouteID:         "MNL-CEB",
		Origin:          Airport{Code: "MNL", City: "Manila"},
		Destination:     Airport{Code: "CEB", City: "Cebu"},
		Airline:         Airline{Name: "Cebu Pacific", Code: "5J"},
		Departure:       time.Date(2026, 12, 26, 8, 0, 0, 0, manila),
		Arrival:         time.Date(2026, 12, 26, 9, 20, 0, 0, manila),
		IsDomestic:      true,
		IsInternational: false,
		BasePrice:       2500,
	}
}

func bookingDate() time.Time {
	return time.Date(2026, 12, 21, 10, 0, 0, 0, manila)
}
