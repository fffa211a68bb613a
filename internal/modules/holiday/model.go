// README: Holiday impact value objects and impact levels.
package holiday

type Level string

const (
	LevelNone     Level = "none"
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// Score maps an impact level to its base impact score.
func (l Level) Score() float64 {
	switch l {
	case LevelLow:
		return 0.3
	case LevelMedium:
		return 0.8
	case LevelHigh:
		return 1.5
	case LevelCritical:
		return 2.0
	default:
		return 0.0
	}
}

// Impact describes how a calendar date is expected to affect travel demand.
// Score can be negative (typhoon-season soft discount).
type Impact struct {
	IsHoliday       bool    `json:"is_holiday"`
	HolidayName     string  `json:"holiday_name,omitempty"`
	Level           Level   `json:"impact_level"`
	Score           float64 `json:"impact_score"`
	DaysToHoliday   int     `json:"days_to_holiday"`
	IsLongWeekend   bool    `json:"is_long_weekend"`
	IsFiesta        bool    `json:"is_fiesta"`
	FiestaLocation  string  `json:"fiesta_location,omitempty"`
	FiestaName      string  `json:"fiesta_name,omitempty"`
	IsPayday        bool    `json:"is_payday"`
	IsTyphoonSeason bool    `json:"is_typhoon_season"`
	IsSchoolBreak   bool    `json:"is_school_break"`
}

type Likelihood string

const (
	LikelihoodLow    Likelihood = "low"
	LikelihoodMedium Likelihood = "medium"
	LikelihoodHigh   Likelihood = "high"
)

// SaleWindow is the heuristic classification of a date against historical seat-sale periods.
type SaleWindow struct {
	IsSalePeriod     bool       `json:"is_sale_period"`
	Likelihood       Likelihood `json:"likelihood"`
	ExpectedDiscount float64    `json:"expected_discount"`
}
