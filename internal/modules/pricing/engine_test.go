package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skyfare/internal/predictor"
)

func midRange() float64 { return 0.5 }

func TestHashFactor(t *testing.T) {
	assert.Equal(t, 0.99, HashFactor("sess-42_5J560"))
	assert.InDelta(t, 1.01, HashFactor("random_abc"), 1e-9)

	allowed := []float64{0.98, 0.99, 1.00, 1.01, 1.02}
	for _, key := range []string{"a", "b", "session-x_PR101", "random_", ""} {
		got := HashFactor(key)
		assert.Equal(t, got, HashFactor(key))
		assert.Contains(t, roundAll(allowed), round2(got))
	}
}

func round2(v float64) float64 { return float64(int(v*100+0.5)) / 100 }

func roundAll(vs []float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = round2(v)
	}
	return out
}

// Wednesday 2026-02-11 12:00 Manila, booked 41 days ahead: no time or lead-time adjustment applies.
func quietFlight() (FlightSnapshot, time.Time) {
	f := domesticFlight()
	f.Departure = time.Date(2026, 2, 11, 12, 0, 0, 0, manila)
	f.Arrival = f.Departure.Add(80 * time.Minute)
	return f, time.Date(2026, 1, 1, 9, 0, 0, 0, manila)
}

func TestPriceForUser_EverythingUnavailable(t *testing.T) {
	f, booked := quietFlight()
	counters := newFakeCounters(nil)
	counters.err = errBackend
	e := NewEngine(NewBasePricer(predictor.Unavailable{}), failingConfig{}, counters, nil,
		WithRandomSource(midRange), WithLocation(manila))

	var res FactorResult
	require.NotPanics(t, func() {
		res = e.PriceForUser(context.Background(), PricingContext{Flight: f, BookingDate: booked}, predictor.Features{})
	})

	assert.Equal(t, 0.0, res.BasePrice)
	assert.Equal(t, 0.0, res.FinalPrice)
	assert.False(t, res.ModelAvailable)

	want := []Factor{
		{FactorUser, 1.05},
		{FactorSession, 1.0},
		{FactorDemand, 1.0},
		{FactorTime, 1.0},
		{FactorInventory, 1.0},
		{FactorRandom, 1.0},
	}
	require.Len(t, res.Factors, len(want))
	for i, w := range want {
		assert.Equal(t, w.Name, res.Factors[i].Name)
		assert.InDelta(t, w.Value, res.Factors[i].Value, 1e-9, w.Name)
	}
	assert.ElementsMatch(t, []string{degradedConfig, degradedBasePrice, FactorDemand, FactorInventory}, res.Degraded)
}

func TestPriceForUser_FullPipeline(t *testing.T) {
	counters := newFakeCounters(map[string]int{
		visitKey("sess-42", "5J560"): 2,
		searchKey("5J560"):           60,
	})
	bookings := &fakeBookings{completed: 6, inventory: InventorySnapshot{Available: 10, Total: 100}}
	e := NewEngine(NewBasePricer(fixedPredictor{price: 3000}), StaticConfig{Config: DefaultConfiguration()},
		counters, bookings, WithLocation(manila))

	res := e.PriceForUser(context.Background(), PricingContext{
		Flight:      domesticFlight(),
		UserID:      "user-1",
		SessionID:   "sess-42",
		BookingDate: bookingDate(),
	}, predictor.Features{})

	assert.True(t, res.ModelAvailable)
	assert.Empty(t, res.Degraded)
	assert.Equal(t, 3000.0, res.BasePrice)

	factor := func(name string) float64 {
		v, ok := factorValue(res.Factors, name)
		require.True(t, ok, name)
		return v
	}
	assert.InDelta(t, 0.92, factor(FactorUser), 1e-9)
	assert.InDelta(t, 0.99*1.02, factor(FactorSession), 1e-9)
	assert.InDelta(t, 1.08*1.15, factor(FactorDemand), 1e-9)
	assert.InDelta(t, 1.12*1.08*1.20*1.30, factor(FactorTime), 1e-9)
	assert.InDelta(t, 1.20, factor(FactorInventory), 1e-9)
	assert.InDelta(t, 0.99, factor(FactorRandom), 1e-9)
	assert.Equal(t, 7999.0, res.FinalPrice)

	// Visit counter is bumped with a one hour expiry.
	require.Len(t, counters.writes, 1)
	assert.Equal(t, counterWrite{visitKey("sess-42", "5J560"), 3, time.Hour}, counters.writes[0])
}

func TestUserFactor(t *testing.T) {
	cfg := DefaultConfiguration()
	tests := []struct {
		name      string
		completed int
		err       error
		want      float64
		degraded  bool
	}{
		{"new user", 0, nil, 1.03, false},
		{"single booking", 1, nil, 1.0, false},
		{"returning", 3, nil, 0.97, false},
		{"loyal", 5, nil, 0.92, false},
		{"lookup failure", 0, errBackend, 1.0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(nil, nil, nil, &fakeBookings{completed: tt.completed, err: tt.err})
			out := e.userFactor(context.Background(), cfg, PricingContext{UserID: "u"})
			assert.Equal(t, tt.want, out.value)
			if tt.degraded {
				assert.ErrorIs(t, out.err, ErrLookup)
			} else {
				assert.NoError(t, out.err)
			}
		})
	}
}

func TestSessionFactor_VisitBumpCapped(t *testing.T) {
	counters := newFakeCounters(map[string]int{visitKey("abc", "PR1845"): 12})
	e := NewEngine(nil, nil, counters, nil)

	f := domesticFlight()
	f.FlightNumber = "PR1845"
	out := e.sessionFactor(context.Background(), PricingContext{Flight: f, SessionID: "abc"})
	require.NoError(t, out.err)
	assert.InDelta(t, 1.0*1.05, out.value, 1e-9)
	assert.Equal(t, 13, counters.values[visitKey("abc", "PR1845")])

	out = e.sessionFactor(context.Background(), PricingContext{Flight: f})
	assert.Equal(t, 1.0, out.value)
}

func TestSearchAndDaysTiers(t *testing.T) {
	cfg := DefaultConfiguration()

	searches := map[float64]float64{0: 1.0, 9: 1.0, 10: 1.03, 49: 1.03, 50: 1.08, 100: 1.15, 500: 1.15}
	for n, want := range searches {
		assert.Equal(t, want, searchTier(cfg, n), "searches=%v", n)
	}

	days := map[float64]float64{0: 1.25, 2: 1.25, 3: 1.15, 6: 1.15, 7: 1.05, 13: 1.05, 14: 1.0, 60: 1.0, 61: 0.90}
	for d, want := range days {
		assert.Equal(t, want, daysTier(cfg, d), "days=%v", d)
	}
}

func TestTimeFactor(t *testing.T) {
	cfg := DefaultConfiguration()
	e := NewEngine(nil, nil, nil, nil, WithLocation(manila))

	tests := []struct {
		name      string
		departure time.Time
		want      float64
	}{
		{"quiet weekday", time.Date(2026, 2, 11, 12, 0, 0, 0, manila), 1.0},
		{"morning peak", time.Date(2026, 2, 11, 7, 30, 0, 0, manila), 1.12},
		{"evening peak edge", time.Date(2026, 2, 11, 19, 59, 0, 0, manila), 1.12},
		{"weekend", time.Date(2026, 2, 14, 12, 0, 0, 0, manila), 1.08},
		{"peak month", time.Date(2026, 10, 14, 12, 0, 0, 0, manila), 1.20},
		{"christmas saturday peak", time.Date(2026, 12, 26, 8, 0, 0, 0, manila), 1.12 * 1.08 * 1.20 * 1.30},
		{"utc input converted to manila", time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC), 1.12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := domesticFlight()
			f.Departure = tt.departure
			out := e.timeFactor(cfg, PricingContext{Flight: f})
			assert.InDelta(t, tt.want, out.value, 1e-9)
		})
	}
}

func TestInventoryFactor(t *testing.T) {
	cfg := DefaultConfiguration()
	tests := []struct {
		name string
		inv  InventorySnapshot
		want float64
	}{
		{"nearly full", InventorySnapshot{Available: 15, Total: 100}, 1.20},
		{"filling", InventorySnapshot{Available: 30, Total: 100}, 1.10},
		{"half", InventorySnapshot{Available: 50, Total: 100}, 1.0},
		{"empty", InventorySnapshot{Available: 90, Total: 100}, 0.90},
	}
	e := NewEngine(nil, nil, nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := tt.inv
			out := e.inventoryFactor(context.Background(), cfg, PricingContext{Inventory: &inv})
			assert.Equal(t, tt.want, out.value)
		})
	}

	failing := NewEngine(nil, nil, nil, &fakeBookings{err: errBackend})
	out := failing.inventoryFactor(context.Background(), cfg, PricingContext{})
	assert.Equal(t, 1.0, out.value)
	assert.ErrorIs(t, out.err, ErrLookup)
}

func TestRandomFactor(t *testing.T) {
	e := NewEngine(nil, nil, nil, nil, WithRandomSource(func() float64 { return 0 }))
	assert.InDelta(t, 0.98, e.randomFactor(PricingContext{}).value, 1e-9)

	e = NewEngine(nil, nil, nil, nil, WithRandomSource(func() float64 { return 0.999999 }))
	assert.InDelta(t, 1.02, e.randomFactor(PricingContext{}).value, 1e-4)

	assert.Equal(t, HashFactor("random_sess-42"), e.randomFactor(PricingContext{SessionID: "sess-42"}).value)

	unseeded := NewEngine(nil, nil, nil, nil)
	for i := 0; i < 100; i++ {
		v := unseeded.randomFactor(PricingContext{}).value
		assert.GreaterOrEqual(t, v, 0.98)
		assert.LessOrEqual(t, v, 1.02)
	}
}
