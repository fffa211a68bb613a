// README: Calendar handlers expose holiday impact, sale window and route fiesta lookups.
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"skyfare/internal/modules/holiday"
)

type CalendarHandler struct {
	calendar *holiday.Calendar
	sales    *holiday.SaleDetector
	loc      *time.Location
}

func NewCalendarHandler(calendar *holiday.Calendar, sales *holiday.SaleDetector, loc *time.Location) *CalendarHandler {
	return &CalendarHandler{calendar: calendar, sales: sales, loc: loc}
}

func (h *CalendarHandler) Impact(c *gin.Context) {
	date, ok := parseDate(c, "date", h.loc)
	if !ok {
		return
	}
	writeJSON(c, http.StatusOK, h.calendar.Impact(date))
}

func (h *CalendarHandler) Sale(c *gin.Context) {
	date, ok := parseDate(c, "date", h.loc)
	if !ok {
		return
	}
	resp := gin.H{"sale_window": h.sales.IsLikelySalePeriod(date)}
	if c.Query("departure") != "" {
		dep, ok := parseDate(c, "departure", h.loc)
		if !ok {
			return
		}
		resp["sale_impact"] = h.sales.SaleImpact(date, dep)
	}
	writeJSON(c, http.StatusOK, resp)
}

func (h *CalendarHandler) Fiesta(c *gin.Context) {
	origin := strings.TrimSpace(c.Query("origin"))
	dest := strings.TrimSpace(c.Query("destination"))
	if origin == "" || dest == "" {
		writeError(c, http.StatusBadRequest, "missing origin or destination")
		return
	}
	date, ok := parseDate(c, "date", h.loc)
	if !ok {
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"origin":              origin,
		"destination":         dest,
		"route_fiesta_factor": h.calendar.RouteFiestaFactor(origin, dest, date),
		"seasonal_factor":     h.calendar.SeasonalFactor(int(date.Month())),
	})
}
