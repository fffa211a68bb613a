// README: Quote handlers: price a seat and record flight searches.
package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"skyfare/internal/http/middleware"
	"skyfare/internal/modules/pricing"
	"skyfare/internal/types"
)

const sessionHeader = "X-Session-ID"

type QuoteHandler struct {
	pricing *pricing.Service
}

func NewQuoteHandler(svc *pricing.Service) *QuoteHandler {
	return &QuoteHandler{pricing: svc}
}

type flightReq struct {
	FlightNumber    string          `json:"flight_number"`
	ScheduleID      string          `json:"schedule_id"`
	RouteID         string          `json:"route_id"`
	Origin          pricing.Airport `json:"origin"`
	Destination     pricing.Airport `json:"destination"`
	Airline         pricing.Airline `json:"airline"`
	Departure       string          `json:"departure"`
	Arrival         string          `json:"arrival"`
	Stops           int             `json:"stops"`
	IsDomestic      bool            `json:"is_domestic"`
	IsInternational bool            `json:"is_international"`
	BasePrice       float64         `json:"base_price"`
}

type seatClassReq struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	PriceMultiplier float64 `json:"price_multiplier"`
}

type quoteReq struct {
	Flight        flightReq                  `json:"flight"`
	SeatClass     seatClassReq               `json:"seat_class"`
	Inventory     *pricing.InventorySnapshot `json:"inventory"`
	SessionID     string                     `json:"session_id"`
	BookingDate   string                     `json:"booking_date"`
	PassengerType string                     `json:"passenger_type"`
}

func parseTimestamp(field, v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q is not RFC3339", pricing.ErrInvalidDate, field, v)
	}
	return t, nil
}

func (r quoteReq) toContext() (pricing.PricingContext, error) {
	dep, err := parseTimestamp("departure", r.Flight.Departure)
	if err != nil {
		return pricing.PricingContext{}, err
	}
	arr, err := parseTimestamp("arrival", r.Flight.Arrival)
	if err != nil {
		return pricing.PricingContext{}, err
	}
	var booked time.Time
	if r.BookingDate != "" {
		if booked, err = parseTimestamp("booking_date", r.BookingDate); err != nil {
			return pricing.PricingContext{}, err
		}
	}

	return pricing.PricingContext{
		Flight: pricing.FlightSnapshot{
			FlightNumber:    r.Flight.FlightNumber,
			ScheduleID:      types.ID(r.Flight.ScheduleID),
			RouteID:         types.ID(r.Flight.RouteID),
			Origin:          r.Flight.Origin,
			Destination:     r.Flight.Destination,
			Airline:         r.Flight.Airline,
			Departure:       dep,
			Arrival:         arr,
			Stops:           r.Flight.Stops,
			IsDomestic:      r.Flight.IsDomestic,
			IsInternational: r.Flight.IsInternational,
			BasePrice:       r.Flight.BasePrice,
		},
		SeatClass: pricing.SeatClassSnapshot{
			ID:              types.ID(r.SeatClass.ID),
			Name:            r.SeatClass.Name,
			PriceMultiplier: r.SeatClass.PriceMultiplier,
		},
		Inventory:   r.Inventory,
		SessionID:   r.SessionID,
		BookingDate: booked,
	}, nil
}

func (h *QuoteHandler) Create(c *gin.Context) {
	var req quoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Flight.FlightNumber == "" || req.Flight.Origin.Code == "" || req.Flight.Destination.Code == "" {
		writeError(c, http.StatusBadRequest, "missing flight fields")
		return
	}
	if req.Inventory != nil && (req.Inventory.Total < 0 || req.Inventory.Available < 0) {
		writeError(c, http.StatusBadRequest, "inventory counts must be non-negative")
		return
	}
	passenger, ok := pricing.ParsePassengerType(req.PassengerType)
	if !ok {
		writeError(c, http.StatusBadRequest, "passenger_type must be Adult, Child or Infant")
		return
	}
	if req.SessionID == "" {
		req.SessionID = c.GetHeader(sessionHeader)
	}

	pctx, err := req.toContext()
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	pctx.PassengerType = passenger
	pctx.UserID = types.ID(middleware.CallerUID(c))

	quote, err := h.pricing.Quote(c.Request.Context(), pctx)
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, quote)
}

func (h *QuoteHandler) RecordSearch(c *gin.Context) {
	number := strings.TrimSpace(c.Param("number"))
	if number == "" {
		writeError(c, http.StatusBadRequest, "missing flight number")
		return
	}
	n, err := h.pricing.RecordSearch(c.Request.Context(), number)
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	writeJSON(c, http.StatusAccepted, gin.H{"flight_number": number, "searches": n})
}
