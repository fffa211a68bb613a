package pricing

import (
	"context"
	"errors"
	"fmt"
)

var ErrConfigUnavailable = errors.New("pricing configuration unavailable")

// Configuration holds the named pricing knobs. Factor fields are multipliers and must be
// positive; threshold fields are counts, days or rates and must be non-negative.
type Configuration struct {
	AnonymousUserFactor      float64
	NewUserFactor            float64
	LoyalUserFactor          float64
	ReturningUserFactor      float64
	LoyalUserMinBookings     float64
	ReturningUserMinBookings float64

	SearchThresholdLow    float64
	SearchThresholdMedium float64
	SearchThresholdHigh   float64
	SearchFactorLow       float64
	SearchFactorMedium    float64
	SearchFactorHigh      float64

	DaysThresholdCritical float64
	DaysThresholdNear     float64
	DaysThresholdMedium   float64
	DaysThresholdFar      float64
	DaysFactorCritical    float64
	DaysFactorNear        float64
	DaysFactorMedium      float64
	DaysFactorFar         float64

	PeakHourFactor      float64
	WeekendFactor       float64
	PeakMonthFactor     float64
	HolidaySeasonFactor float64

	OccupancyThresholdHigh   float64
	OccupancyThresholdMedium float64
	OccupancyThresholdLow    float64
	OccupancyFactorHigh      float64
	OccupancyFactorMedium    float64
	OccupancyFactorLow       float64
}

// DefaultConfiguration is used whenever the provider fails or returns an invalid snapshot.
func DefaultConfiguration() Configuration {
	return Configuration{
		AnonymousUserFactor:      1.05,
		NewUserFactor:            1.03,
		LoyalUserFactor:          0.92,
		ReturningUserFactor:      0.97,
		LoyalUserMinBookings:     5,
		ReturningUserMinBookings: 2,

		SearchThresholdLow:    10,
		SearchThresholdMedium: 50,
		SearchThresholdHigh:   100,
		SearchFactorLow:       1.03,
		SearchFactorMedium:    1.08,
		SearchFactorHigh:      1.15,

		DaysThresholdCritical: 3,
		DaysThresholdNear:     7,
		DaysThresholdMedium:   14,
		DaysThresholdFar:      60,
		DaysFactorCritical:    1.25,
		DaysFactorNear:        1.15,
		DaysFactorMedium:      1.05,
		DaysFactorFar:         0.90,

		PeakHourFactor:      1.12,
		WeekendFactor:       1.08,
		PeakMonthFactor:     1.20,
		HolidaySeasonFactor: 1.30,

		OccupancyThresholdHigh:   0.8,
		OccupancyThresholdMedium: 0.6,
		OccupancyThresholdLow:    0.2,
		OccupancyFactorHigh:      1.20,
		OccupancyFactorMedium:    1.10,
		OccupancyFactorLow:       0.90,
	}
}

type knobKind int

const (
	knobFactor knobKind = iota
	knobThreshold
)

type knob struct {
	name string
	kind knobKind
	ptr  *float64
}

// knobs lists every field under the name used by the pricing_configuration table.
func (c *Configuration) knobs() []knob {
	return []knob{
		{"anonymous_user_factor", knobFactor, &c.AnonymousUserFactor},
		{"new_user_factor", knobFactor, &c.NewUserFactor},
		{"loyal_user_factor", knobFactor, &c.LoyalUserFactor},
		{"returning_user_factor", knobFactor, &c.ReturningUserFactor},
		{"loyal_user_min_bookings", knobThreshold, &c.LoyalUserMinBookings},
		{"returning_user_min_bookings", knobThreshold, &c.ReturningUserMinBookings},
		{"search_threshold_low", knobThreshold, &c.SearchThresholdLow},
		{"search_threshold_medium", knobThreshold, &c.SearchThresholdMedium},
		{"search_threshold_high", knobThreshold, &c.SearchThresholdHigh},
		{"search_factor_low", knobFactor, &c.SearchFactorLow},
		{"search_factor_medium", knobFactor, &c.SearchFactorMedium},
		{"search_factor_high", knobFactor, &c.SearchFactorHigh},
		{"days_threshold_critical", knobThreshold, &c.DaysThresholdCritical},
		{"days_threshold_near", knobThreshold, &c.DaysThresholdNear},
		{"days_threshold_medium", knobThreshold, &c.DaysThresholdMedium},
		{"days_threshold_far", knobThreshold, &c.DaysThresholdFar},
		{"days_factor_critical", knobFactor, &c.DaysFactorCritical},
		{"days_factor_near", knobFactor, &c.DaysFactorNear},
		{"days_factor_medium", knobFactor, &c.DaysFactorMedium},
		{"days_factor_far", knobFactor, &c.DaysFactorFar},
		{"peak_hour_factor", knobFactor, &c.PeakHourFactor},
		{"weekend_factor", knobFactor, &c.WeekendFactor},
		{"peak_month_factor", knobFactor, &c.PeakMonthFactor},
		{"holiday_season_factor", knobFactor, &c.HolidaySeasonFactor},
		{"occupancy_threshold_high", knobThreshold, &c.OccupancyThresholdHigh},
		{"occupancy_threshold_medium", knobThreshold, &c.OccupancyThresholdMedium},
		{"occupancy_threshold_low", knobThreshold, &c.OccupancyThresholdLow},
		{"occupancy_factor_high", knobFactor, &c.OccupancyFactorHigh},
		{"occupancy_factor_medium", knobFactor, &c.OccupancyFactorMedium},
		{"occupancy_factor_low", knobFactor, &c.OccupancyFactorLow},
	}
}

// Validate checks that multipliers are positive and thresholds non-negative.
func (c Configuration) Validate() error {
	for _, k := range c.knobs() {
		v := *k.ptr
		switch k.kind {
		case knobFactor:
			if v <= 0 {
				return fmt.Errorf("%s must be positive, got %v", k.name, v)
			}
		case knobThreshold:
			if v < 0 {
				return fmt.Errorf("%s must be non-negative, got %v", k.name, v)
			}
		}
	}
	return nil
}

// Apply overlays named values onto c. Unknown names are returned so callers can log them.
func (c *Configuration) Apply(values map[string]float64) (unknown []string) {
	known := make(map[string]*float64)
	for _, k := range c.knobs() {
		known[k.name] = k.ptr
	}
	for name, v := range values {
		ptr, ok := known[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		*ptr = v
	}
	return unknown
}

// Values returns the configuration keyed by knob name.
func (c Configuration) Values() map[string]float64 {
	out := make(map[string]float64)
	for _, k := range c.knobs() {
		out[k.name] = *k.ptr
	}
	return out
}

// ConfigProvider supplies a read-only configuration snapshot for one quote.
type ConfigProvider interface {
	Load(ctx context.Context) (Configuration, error)
}

// StaticConfig serves a fixed configuration; used by the CLI and tests.
type StaticConfig struct {
	Config Configuration
}

func (s StaticConfig) Load(context.Context) (Configuration, error) {
	return s.Config, nil
}

// loadConfig resolves the snapshot for one quote. The returned error is non-nil when defaults
// were substituted.
func loadConfig(ctx context.Context, p ConfigProvider) (Configuration, error) {
	if p == nil {
		return DefaultConfiguration(), ErrConfigUnavailable
	}
	cfg, err := p.Load(ctx)
	if err != nil {
		return DefaultConfiguration(), fmt.Errorf("%w: %v", ErrConfigUnavailable, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfiguration(), fmt.Errorf("%w: %v", ErrConfigUnavailable, err)
	}
	return cfg, nil
}
