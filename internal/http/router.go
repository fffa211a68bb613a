// README: HTTP router registration.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skyfare/internal/http/handlers"
	"skyfare/internal/http/middleware"
	"skyfare/internal/infra"
	"skyfare/internal/modules/holiday"
	"skyfare/internal/modules/pricing"
)

type RouterDeps struct {
	Pricing   *pricing.Service
	Calendar  *holiday.Calendar
	Sales     *holiday.SaleDetector
	Verifier  infra.TokenVerifier
	Location  *time.Location
	Logger    *zap.Logger
	RateRPS   float64
	RateBurst int
}

func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.Recovery(logger), middleware.Logging(logger))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api")
	api.Use(middleware.Auth(deps.Verifier))

	quoteHandler := handlers.NewQuoteHandler(deps.Pricing)
	limited := api.Group("", middleware.RateLimit(deps.RateRPS, deps.RateBurst, logger))
	limited.POST("/quotes", quoteHandler.Create)
	limited.POST("/flights/:number/searches", quoteHandler.RecordSearch)

	calendarHandler := handlers.NewCalendarHandler(deps.Calendar, deps.Sales, deps.Location)
	api.GET("/calendar/impact", calendarHandler.Impact)
	api.GET("/calendar/sale", calendarHandler.Sale)
	api.GET("/calendar/fiesta", calendarHandler.Fiesta)

	return r
}
