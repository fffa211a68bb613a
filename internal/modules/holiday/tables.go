// README: Static Philippine holiday, fiesta, long-weekend and school-break tables.
package holiday

import "time"

type monthDay struct {
	Month time.Month
	Day   int
}

type fixedHoliday struct {
	Name       string
	Level      Level
	EffectDays int
}

type dateRange struct {
	Start time.Time
	End   time.Time
}

type fiesta struct {
	Location string
	Month    time.Month
	Day      int
	Name     string
	Level    Level
}

type seasonRange struct {
	Name  string
	Start monthDay
	End   monthDay
}

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// National Heroes Day is observed on the last Monday of August but is kept at Aug 30 here.
var fixedHolidays = map[monthDay]fixedHoliday{
	{time.January, 1}:   {"New Year's Day", LevelCritical, 3},
	{time.February, 25}: {"EDSA People Power Revolution Anniversary", LevelLow, 1},
	{time.April, 9}:     {"Araw ng Kagitingan", LevelMedium, 1},
	{time.May, 1}:       {"Labor Day", LevelMedium, 1},
	{time.June, 12}:     {"Independence Day", LevelMedium, 1},
	{time.August, 21}:   {"Ninoy Aquino Day", LevelLow, 1},
	{time.August, 30}:   {"National Heroes Day", LevelMedium, 1},
	{time.November, 1}:  {"All Saints' Day", LevelHigh, 3},
	{time.November, 2}:  {"All Souls' Day", LevelHigh, 2},
	{time.November, 30}: {"Bonifacio Day", LevelMedium, 1},
	{time.December, 8}:  {"Feast of the Immaculate Conception", LevelLow, 1},
	{time.December, 24}: {"Christmas Eve", LevelCritical, 3},
	{time.December, 25}: {"Christmas Day", LevelCritical, 5},
	{time.December, 30}: {"Rizal Day", LevelHigh, 2},
	{time.December, 31}: {"New Year's Eve", LevelCritical, 3},
}

var holyWeek = map[int]dateRange{
	2024: {d(2024, time.March, 24), d(2024, time.March, 31)},
	2025: {d(2025, time.April, 13), d(2025, time.April, 20)},
	2026: {d(2026, time.March, 29), d(2026, time.April, 5)},
	2027: {d(2027, time.March, 21), d(2027, time.March, 28)},
}

var chineseNewYear = map[int]time.Time{
	2024: d(2024, time.February, 10),
	2025: d(2025, time.January, 29),
	2026: d(2026, time.February, 17),
	2027: d(2027, time.February, 6),
}

var eidlFitr = map[int]time.Time{
	2024: d(2024, time.April, 10),
	2025: d(2025, time.April, 1),
	2026: d(2026, time.March, 20),
	2027: d(2027, time.March, 10),
}

var fiestas = []fiesta{
	{"Cebu", time.January, 19, "Sinulog Festival", LevelCritical},
	{"Kalibo", time.January, 12, "Ati-Atihan Festival", LevelHigh},
	{"Iloilo", time.January, 26, "Dinagyang Festival", LevelHigh},
	{"Baguio", time.February, 23, "Panagbenga Festival", LevelHigh},
	{"Lucban", time.May, 15, "Pahiyas Festival", LevelMedium},
	{"Tacloban", time.June, 29, "Pintados-Kasadyaan Festival", LevelMedium},
	{"Davao", time.August, 17, "Kadayawan Festival", LevelHigh},
	{"Naga", time.September, 21, "Peñafrancia Festival", LevelHigh},
	{"Zamboanga", time.October, 12, "Hermosa Festival", LevelMedium},
	{"Bacolod", time.October, 19, "MassKara Festival", LevelCritical},
}

// longWeekends is keyed by the year the range starts in; a range may end in the following year.
var longWeekends = map[int][]dateRange{
	2024: {
		{d(2024, time.March, 28), d(2024, time.March, 31)},
		{d(2024, time.April, 6), d(2024, time.April, 9)},
		{d(2024, time.August, 24), d(2024, time.August, 26)},
		{d(2024, time.November, 1), d(2024, time.November, 3)},
		{d(2024, time.November, 30), d(2024, time.December, 1)},
		{d(2024, time.December, 28), d(2025, time.January, 1)},
	},
	2025: {
		{d(2025, time.April, 17), d(2025, time.April, 20)},
		{d(2025, time.August, 23), d(2025, time.August, 25)},
		{d(2025, time.October, 31), d(2025, time.November, 2)},
		{d(2025, time.December, 24), d(2025, time.December, 28)},
		{d(2025, time.December, 30), d(2026, time.January, 1)},
	},
	2026: {
		{d(2026, time.April, 2), d(2026, time.April, 5)},
		{d(2026, time.June, 12), d(2026, time.June, 14)},
		{d(2026, time.August, 29), d(2026, time.August, 31)},
		{d(2026, time.October, 31), d(2026, time.November, 2)},
		{d(2026, time.December, 24), d(2026, time.December, 27)},
		{d(2026, time.December, 30), d(2027, time.January, 3)},
	},
	2027: {
		{d(2027, time.March, 25), d(2027, time.March, 28)},
		{d(2027, time.June, 12), d(2027, time.June, 14)},
		{d(2027, time.August, 28), d(2027, time.August, 30)},
		{d(2027, time.December, 24), d(2027, time.December, 26)},
	},
}

var schoolBreaks = []seasonRange{
	{"Summer Break", monthDay{time.April, 1}, monthDay{time.June, 15}},
	{"Semestral Break", monthDay{time.October, 25}, monthDay{time.November, 5}},
	{"Christmas Break", monthDay{time.December, 18}, monthDay{time.December, 31}},
	{"New Year Break", monthDay{time.January, 1}, monthDay{time.January, 5}},
}

var seasonalFactors = [12]float64{1.2, 1.0, 1.1, 1.4, 1.3, 0.9, 0.85, 0.85, 0.9, 1.0, 1.1, 1.5}

// airportCities maps IATA codes to the city names used in the fiesta table.
var airportCities = map[string]string{
	"MNL": "Manila",
	"CRK": "Clark",
	"CEB": "Cebu",
	"DVO": "Davao",
	"ILO": "Iloilo",
	"BCD": "Bacolod",
	"KLO": "Kalibo",
	"MPH": "Caticlan",
	"TAC": "Tacloban",
	"WNP": "Naga",
	"ZAM": "Zamboanga",
	"PPS": "Puerto Princesa",
	"TAG": "Tagbilaran",
	"CGY": "Cagayan de Oro",
	"GES": "General Santos",
	"LGP": "Legazpi",
	"BAG": "Baguio",
}

var saleMonths = map[time.Month]bool{
	time.January:   true,
	time.March:     true,
	time.June:      true,
	time.September: true,
	time.November:  true,
}
