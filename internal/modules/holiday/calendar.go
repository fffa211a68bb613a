// README: Holiday calendar computes per-date demand impact from the static tables.
package holiday

import (
	"math"
	"strings"
	"time"
)

const (
	holyWeekName       = "Holy Week"
	chineseNewYearName = "Chinese New Year"
	eidlFitrName       = "Eid'l Fitr"

	eidlFitrScore       = 1.3
	fiestaScore         = 1.4
	longWeekendScore    = 1.6
	schoolBreakScore    = 1.3
	paydayBonus         = 0.1
	typhoonSoftDiscount = -0.1

	defaultDaysToHoliday = 365
)

// Calendar answers holiday, fiesta and seasonality questions for calendar dates.
// Only the year, month and day of the given time are used, in the time's own location.
type Calendar struct{}

func NewCalendar() *Calendar {
	return &Calendar{}
}

// Impact scores a single date. Holiday, fiesta, long-weekend and school-break scores combine
// with max; the payday bonus is additive and the typhoon discount only replaces a zero score.
func (c *Calendar) Impact(date time.Time) Impact {
	y, m, dd := date.Date()
	day := d(y, m, dd)

	imp := Impact{Level: LevelNone, DaysToHoliday: defaultDaysToHoliday}

	if h, ok := fixedHolidays[monthDay{m, dd}]; ok {
		imp.IsHoliday = true
		imp.HolidayName = h.Name
		imp.Level = h.Level
		imp.Score = h.Level.Score()
	}

	if r, ok := holyWeek[y]; ok && r.contains(day) {
		imp.IsHoliday = true
		imp.HolidayName = holyWeekName
		imp.Level = LevelCritical
		imp.Score = LevelCritical.Score()
	}
	if cny, ok := chineseNewYear[y]; ok && day.Equal(cny) {
		imp.IsHoliday = true
		imp.HolidayName = chineseNewYearName
		imp.Level = LevelHigh
		imp.Score = LevelHigh.Score()
	}
	if eid, ok := eidlFitr[y]; ok && day.Equal(eid) {
		imp.IsHoliday = true
		imp.HolidayName = eidlFitrName
		imp.Level = LevelMedium
		imp.Score = eidlFitrScore
	}

	for _, f := range fiestas {
		if f.Month != m || f.Day != dd {
			continue
		}
		imp.IsFiesta = true
		imp.FiestaLocation = f.Location
		imp.FiestaName = f.Name
		if f.Level == LevelCritical {
			imp.Score = math.Max(imp.Score, LevelCritical.Score())
			imp.Level = LevelCritical
		} else {
			imp.Score = math.Max(imp.Score, fiestaScore)
		}
		break
	}

	if inLongWeekend(day) {
		imp.IsLongWeekend = true
		imp.Score = math.Max(imp.Score, longWeekendScore)
	}

	imp.DaysToHoliday = daysToMajorHoliday(day)

	if isPayday(day) {
		imp.IsPayday = true
		imp.Score += paydayBonus
	}

	if m >= time.June && m <= time.November {
		imp.IsTyphoonSeason = true
		if imp.Score == 0 {
			imp.Score = typhoonSoftDiscount
		}
	}

	for _, sb := range schoolBreaks {
		if sb.contains(m, dd) {
			imp.IsSchoolBreak = true
			imp.Score = math.Max(imp.Score, schoolBreakScore)
			break
		}
	}

	return imp
}

// RouteFiestaFactor returns the demand multiplier for a route when either endpoint city is
// celebrating a fiesta on the given date.
func (c *Calendar) RouteFiestaFactor(originCode, destCode string, date time.Time) float64 {
	imp := c.Impact(date)
	if !imp.IsFiesta {
		return 1.0
	}
	if CityForAirport(originCode) != imp.FiestaLocation && CityForAirport(destCode) != imp.FiestaLocation {
		return 1.0
	}
	if imp.Level == LevelCritical {
		return 1.5
	}
	return 1.3
}

// SeasonalFactor returns the month's seasonal multiplier, or 1.0 for an invalid month.
func (c *Calendar) SeasonalFactor(month int) float64 {
	if month < 1 || month > 12 {
		return 1.0
	}
	return seasonalFactors[month-1]
}

// CityForAirport maps an airport code to its city; unknown codes are returned unchanged.
func CityForAirport(code string) string {
	code = strings.TrimSpace(code)
	if city, ok := airportCities[strings.ToUpper(code)]; ok {
		return city
	}
	return code
}

func (r dateRange) contains(day time.Time) bool {
	return !day.Before(r.Start) && !day.After(r.End)
}

func (r seasonRange) contains(m time.Month, dd int) bool {
	x := monthDay{m, dd}
	if !r.Start.after(r.End) {
		return !r.Start.after(x) && !x.after(r.End)
	}
	// wraps the year end
	return !r.Start.after(x) || !x.after(r.End)
}

func (a monthDay) after(b monthDay) bool {
	if a.Month != b.Month {
		return a.Month > b.Month
	}
	return a.Day > b.Day
}

func inLongWeekend(day time.Time) bool {
	for _, y := range []int{day.Year(), day.Year() - 1} {
		for _, r := range longWeekends[y] {
			if r.contains(day) {
				return true
			}
		}
	}
	return false
}

func daysToMajorHoliday(day time.Time) int {
	y := day.Year()
	var candidates []time.Time
	for md, h := range fixedHolidays {
		if h.Level != LevelHigh && h.Level != LevelCritical {
			continue
		}
		candidates = append(candidates, d(y, md.Month, md.Day))
		if day.Month() == time.December {
			candidates = append(candidates, d(y+1, md.Month, md.Day))
		}
	}
	if r, ok := holyWeek[y]; ok {
		candidates = append(candidates, r.Start)
	}
	if cny, ok := chineseNewYear[y]; ok {
		candidates = append(candidates, cny)
	}
	if len(candidates) == 0 {
		return defaultDaysToHoliday
	}

	best := math.MaxInt
	for _, c := range candidates {
		n := daysBetween(day, c)
		if n < 0 {
			n = -n
		}
		if n < best {
			best = n
		}
	}
	return best
}

func daysBetween(from, to time.Time) int {
	return int(math.Round(to.Sub(from).Hours() / 24))
}

func isPayday(day time.Time) bool {
	dd := day.Day()
	return dd == 15 || dd == 30 || dd == lastDayOfMonth(day)
}

func lastDayOfMonth(day time.Time) int {
	return d(day.Year(), day.Month()+1, 0).Day()
}
