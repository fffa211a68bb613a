// README: Offline quote and calendar inspection; runs the pricing engine in-process without Postgres or Redis.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"skyfare/internal/infra"
	"skyfare/internal/modules/holiday"
	"skyfare/internal/modules/pricing"
	"skyfare/internal/predictor"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "quote":
		err = runQuote(os.Args[2:])
	case "calendar":
		err = runCalendar(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: skyfare-cli quote|calendar [flags]")
}

func runQuote(args []string) error {
	fs := flag.NewFlagSet("quote", flag.ExitOnError)
	flightNumber := fs.String("flight", "5J560", "flight number")
	airline := fs.String("airline", "Cebu Pacific", "airline name")
	origin := fs.String("from", "MNL", "origin airport code")
	dest := fs.String("to", "CEB", "destination airport code")
	departure := fs.String("departure", "", "departure time, RFC3339 (default: 14 days from now, 08:00 Manila)")
	duration := fs.Duration("duration", 85*time.Minute, "block time")
	base := fs.Float64("base", 3000, "route base price in PHP")
	class := fs.String("class", "Economy", "seat class name")
	passenger := fs.String("passenger", "Adult", "Adult, Child or Infant")
	session := fs.String("session", "", "session id")
	available := fs.Int("available", 60, "available seats")
	total := fs.Int("total", 180, "total seats")
	searches := fs.Int("searches", 0, "recent searches for the flight")
	knobsFile := fs.String("knobs", "", "JSON file of pricing knob overrides")
	useGemini := fs.Bool("gemini", false, "price the base fare with Gemini (needs GEMINI_API_KEY)")
	verbose := fs.Bool("v", false, "debug logging")
	_ = fs.Parse(args)

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger, err := infra.NewLogger("development", level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	loc := pricing.ManilaLocation()

	dep := time.Now().In(loc).AddDate(0, 0, 14)
	dep = time.Date(dep.Year(), dep.Month(), dep.Day(), 8, 0, 0, 0, loc)
	if *departure != "" {
		if dep, err = time.Parse(time.RFC3339, *departure); err != nil {
			return fmt.Errorf("departure: %w", err)
		}
	}

	cfg := pricing.DefaultConfiguration()
	if *knobsFile != "" {
		if err := applyKnobs(&cfg, *knobsFile); err != nil {
			return err
		}
	}

	var model predictor.Predictor = predictor.Unavailable{}
	if *useGemini {
		gp, err := predictor.NewGeminiPredictor(ctx, os.Getenv("GEMINI_API_KEY"))
		if err != nil {
			return err
		}
		defer gp.Close()
		model = gp
	}

	counters := pricing.NewMemoryCounters()
	features := pricing.NewFeatureExtractor(predictor.DefaultColumns(), nil, loc, logger)
	engine := pricing.NewEngine(pricing.NewBasePricer(model), pricing.StaticConfig{Config: cfg}, counters, nil,
		pricing.WithLocation(loc),
		pricing.WithLogger(logger),
	)
	svc := pricing.NewService(pricing.ServiceDeps{
		Engine:          engine,
		Fallback:        pricing.NewFallbackPricer(features, logger),
		Features:        features,
		Counters:        counters,
		FallbackEnabled: true,
		Logger:          logger,
	})

	for i := 0; i < *searches; i++ {
		if _, err := svc.RecordSearch(ctx, *flightNumber); err != nil {
			return err
		}
	}

	pt, ok := pricing.ParsePassengerType(*passenger)
	if !ok {
		return fmt.Errorf("unknown passenger type %q", *passenger)
	}
	q, err := svc.Quote(ctx, pricing.PricingContext{
		Flight: pricing.FlightSnapshot{
			FlightNumber: *flightNumber,
			Origin:       pricing.Airport{Code: strings.ToUpper(*origin), City: holiday.CityForAirport(strings.ToUpper(*origin))},
			Destination:  pricing.Airport{Code: strings.ToUpper(*dest), City: holiday.CityForAirport(strings.ToUpper(*dest))},
			Airline:      pricing.Airline{Name: *airline},
			Departure:    dep,
			Arrival:      dep.Add(*duration),
			IsDomestic:   true,
			BasePrice:    *base,
		},
		SeatClass:     pricing.SeatClassSnapshot{Name: *class},
		Inventory:     &pricing.InventorySnapshot{Available: *available, Total: *total},
		SessionID:     *session,
		PassengerType: pt,
	})
	if err != nil {
		return err
	}
	logger.Debug("quote done", zap.String("source", string(q.Source)))
	return printJSON(q)
}

func applyKnobs(cfg *pricing.Configuration, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read knobs: %w", err)
	}
	var values map[string]float64
	if err := json.Unmarshal(raw, &values); err != nil {
		return fmt.Errorf("parse knobs: %w", err)
	}
	if unknown := cfg.Apply(values); len(unknown) > 0 {
		return fmt.Errorf("unknown knobs: %s", strings.Join(unknown, ", "))
	}
	return cfg.Validate()
}

func runCalendar(args []string) error {
	fs := flag.NewFlagSet("calendar", flag.ExitOnError)
	date := fs.String("date", "", "date to inspect, YYYY-MM-DD (default: today)")
	origin := fs.String("from", "MNL", "origin airport code")
	dest := fs.String("to", "", "destination airport code for the fiesta factor")
	_ = fs.Parse(args)

	loc := pricing.ManilaLocation()
	day := time.Now().In(loc)
	if *date != "" {
		var err error
		if day, err = time.ParseInLocation("2006-01-02", *date, loc); err != nil {
			return fmt.Errorf("date: %w", err)
		}
	}

	calendar := holiday.NewCalendar()
	sales := holiday.NewSaleDetector()
	out := struct {
		Date        string             `json:"date"`
		Impact      holiday.Impact     `json:"impact"`
		Sale        holiday.SaleWindow `json:"sale"`
		Seasonal    float64            `json:"seasonal_factor"`
		FiestaRoute string             `json:"fiesta_route,omitempty"`
		Fiesta      float64            `json:"route_fiesta_factor,omitempty"`
	}{
		Date:     day.Format("2006-01-02"),
		Impact:   calendar.Impact(day),
		Sale:     sales.IsLikelySalePeriod(day),
		Seasonal: calendar.SeasonalFactor(int(day.Month())),
	}
	if *dest != "" {
		out.FiestaRoute = strings.ToUpper(*origin) + "-" + strings.ToUpper(*dest)
		out.Fiesta = calendar.RouteFiestaFactor(strings.ToUpper(*origin), strings.ToUpper(*dest), day)
	}
	return printJSON(out)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
