// README: Pricing inputs (read-only snapshots) and the quote produced for a booking flow.
package pricing

import (
	"time"

	"skyfare/internal/modules/holiday"
	"skyfare/internal/types"
)

type Airport struct {
	Code string `json:"code"`
	City string `json:"city"`
}

type Airline struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// FlightSnapshot is a read view of a scheduled flight supplied by the booking system.
type FlightSnapshot struct {
	FlightNumber    string    `json:"flight_number"`
	ScheduleID      types.ID  `json:"schedule_id"`
	RouteID         types.ID  `json:"route_id"`
	Origin          Airport   `json:"origin"`
	Destination     Airport   `json:"destination"`
	Airline         Airline   `json:"airline"`
	Departure       time.Time `json:"departure"`
	Arrival         time.Time `json:"arrival"`
	Stops           int       `json:"stops"`
	IsDomestic      bool      `json:"is_domestic"`
	IsInternational bool      `json:"is_international"`
	BasePrice       float64   `json:"base_price"`
}

// DurationMinutes is the block time; 0 when arrival does not follow departure.
func (f FlightSnapshot) DurationMinutes() int {
	d := f.Arrival.Sub(f.Departure)
	if d <= 0 {
		return 0
	}
	return int(d.Minutes())
}

type SeatClassSnapshot struct {
	ID              types.ID `json:"id"`
	Name            string   `json:"name"`
	PriceMultiplier float64  `json:"price_multiplier"`
}

type InventorySnapshot struct {
	Available int `json:"available"`
	Total     int `json:"total"`
}

// OccupancyRate is the sold fraction of seats, 0 when the schedule has no seats.
func (i InventorySnapshot) OccupancyRate() float64 {
	if i.Total <= 0 {
		return 0
	}
	return 1 - float64(i.Available)/float64(i.Total)
}

type PassengerType string

const (
	PassengerAdult  PassengerType = "Adult"
	PassengerChild  PassengerType = "Child"
	PassengerInfant PassengerType = "Infant"
)

// PricingContext is the per-request input to a quote. An empty UserID means anonymous;
// a zero BookingDate means now. Inventory, when set, replaces the live seat count lookup.
type PricingContext struct {
	Flight        FlightSnapshot
	SeatClass     SeatClassSnapshot
	Inventory     *InventorySnapshot
	UserID        types.ID
	SessionID     string
	BookingDate   time.Time
	PassengerType PassengerType
}

func (c PricingContext) Anonymous() bool {
	return c.UserID == ""
}

type Source string

const (
	SourceModel     Source = "model"
	SourceRuleBased Source = "rule_based"
)

// Factor is one multiplicative adjustment in the order it was applied.
type Factor struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type TaxLine struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type TaxBreakdown struct {
	Lines []TaxLine `json:"lines"`
	Total float64   `json:"total"`
}

// Amount returns the line named name, or 0.
func (t TaxBreakdown) Amount(name string) float64 {
	for _, l := range t.Lines {
		if l.Name == name {
			return l.Amount
		}
	}
	return 0
}

// Signals are calendar inputs reported with a quote for observability.
type Signals struct {
	Holiday           holiday.Impact     `json:"holiday"`
	SaleWindow        holiday.SaleWindow `json:"sale_window"`
	SaleImpact        float64            `json:"sale_impact"`
	RouteFiestaFactor float64            `json:"route_fiesta_factor"`
	SeasonalFactor    float64            `json:"seasonal_factor"`
}

type PriceQuote struct {
	ID             types.ID      `json:"id"`
	Source         Source        `json:"source"`
	BasePrice      float64       `json:"base_price"`
	FinalPrice     float64       `json:"final_price"`
	Factors        []Factor      `json:"factors_applied"`
	SeatClass      string        `json:"seat_class"`
	SeatClassFare  float64       `json:"seat_class_fare"`
	PassengerType  PassengerType `json:"passenger_type"`
	RoundedFare    float64       `json:"rounded_fare"`
	Taxes          TaxBreakdown  `json:"tax_breakdown"`
	TotalWithTaxes float64       `json:"total_with_taxes"`
	Currency       string        `json:"currency"`
	Degraded       []string      `json:"degraded,omitempty"`
	Signals        Signals       `json:"signals"`
	QuotedAt       time.Time     `json:"quoted_at"`
}

// Factor returns the multiplier recorded under name and whether it was applied.
func (q PriceQuote) Factor(name string) (float64, bool) {
	return factorValue(q.Factors, name)
}

func factorValue(factors []Factor, name string) (float64, bool) {
	for _, f := range factors {
		if f.Name == name {
			return f.Value, true
		}
	}
	return 0, false
}
