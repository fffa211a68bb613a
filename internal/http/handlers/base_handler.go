// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"skyfare/internal/modules/pricing"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeQuoteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pricing.ErrInvalidDate):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, pricing.ErrLookup):
		writeError(c, http.StatusServiceUnavailable, "counter store unavailable")
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

const dateLayout = "2006-01-02"

// parseDate reads a YYYY-MM-DD query value as midnight in loc.
func parseDate(c *gin.Context, key string, loc *time.Location) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		writeError(c, http.StatusBadRequest, "missing "+key)
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid "+key+", expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}
