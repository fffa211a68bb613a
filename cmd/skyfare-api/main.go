// README: Entry point; loads config, wires the pricing engine and its stores, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skyfare/internal/clock"
	"skyfare/internal/config"
	httptransport "skyfare/internal/http"
	"skyfare/internal/infra"
	"skyfare/internal/modules/holiday"
	"skyfare/internal/modules/pricing"
	"skyfare/internal/predictor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := infra.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc := pricing.ManilaLocation()
	if tz, err := time.LoadLocation(cfg.Timezone); err == nil {
		loc = tz
	} else {
		logger.Warn("unknown timezone, using Asia/Manila", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	var verifier infra.TokenVerifier
	if cfg.Firebase.ProjectID != "" {
		verifier, err = infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			logger.Fatal("firebase init", zap.Error(err))
		}
	} else {
		logger.Info("SKYFARE_FIREBASE_PROJECT_ID not set, all quotes are anonymous")
	}

	// Config and booking lookups degrade per quote when the database is down.
	var (
		configs  pricing.ConfigProvider
		bookings pricing.BookingReader
	)
	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		if cfg.IsProduction() {
			logger.Fatal("database init", zap.Error(err))
		}
		logger.Warn("database unavailable, pricing with default configuration", zap.Error(err))
	} else {
		defer dbPool.Close()
		store := pricing.NewStore(dbPool, logger)
		configs, bookings = store, store
	}

	var counters pricing.CounterCache
	if rdb := infra.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); rdb != nil {
		defer func() { _ = rdb.Close() }()
		counters = pricing.NewRedisCounters(rdb)
	} else {
		logger.Warn("redis unavailable, using in-process counters", zap.String("addr", cfg.Redis.Addr))
		counters = pricing.NewMemoryCounters()
	}

	columns := predictor.DefaultColumns()
	if cfg.Model.ColumnsFile != "" {
		if columns, err = predictor.LoadColumns(cfg.Model.ColumnsFile); err != nil {
			logger.Fatal("load model columns", zap.String("path", cfg.Model.ColumnsFile), zap.Error(err))
		}
	}

	var model predictor.Predictor = predictor.Unavailable{}
	switch cfg.Model.Kind {
	case config.PredictorHTTP:
		if cfg.Model.Endpoint == "" {
			logger.Warn("SKYFARE_MODEL_ENDPOINT not set, every quote uses the rule based fallback")
		} else {
			model = predictor.NewHTTPPredictor(cfg.Model.Endpoint, cfg.Model.Timeout)
		}
	case config.PredictorGemini:
		gp, err := predictor.NewGeminiPredictor(ctx, cfg.Model.GeminiKey)
		if err != nil {
			logger.Fatal("gemini init", zap.Error(err))
		}
		defer gp.Close()
		model = gp
	}

	sysClock := clock.NewSystem()
	calendar := holiday.NewCalendar()
	sales := holiday.NewSaleDetector()

	features := pricing.NewFeatureExtractor(columns, bookings, loc, logger)
	engine := pricing.NewEngine(pricing.NewBasePricer(model), configs, counters, bookings,
		pricing.WithClock(sysClock),
		pricing.WithLocation(loc),
		pricing.WithLogger(logger),
	)
	pricingSvc := pricing.NewService(pricing.ServiceDeps{
		Engine:          engine,
		Fallback:        pricing.NewFallbackPricer(features, logger),
		Features:        features,
		Calendar:        calendar,
		Sales:           sales,
		Counters:        counters,
		Clock:           sysClock,
		FallbackEnabled: cfg.FallbackEnabled,
		Logger:          logger,
	})

	server := newHTTPServer(cfg, httptransport.RouterDeps{
		Pricing:   pricingSvc,
		Calendar:  calendar,
		Sales:     sales,
		Verifier:  verifier,
		Location:  loc,
		Logger:    logger,
		RateRPS:   cfg.RateLimit.RPS,
		RateBurst: cfg.RateLimit.Burst,
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown", zap.Error(err))
		}
	}()

	logger.Info("skyfare api listening",
		zap.String("addr", cfg.HTTP.Addr),
		zap.String("predictor", cfg.Model.Kind),
		zap.Bool("fallback", cfg.FallbackEnabled),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("http server", zap.Error(err))
	}
}

// newHTTPServer selects the gin mode before any route is registered.
func newHTTPServer(cfg config.Config, deps httptransport.RouterDeps) *http.Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return &http.Server{Addr: cfg.HTTP.Addr, Handler: httptransport.NewRouter(deps)}
}
