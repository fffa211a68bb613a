// README: Bench checks: environment, migration, quote and calendar endpoints, search counters and quote throughput.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	statusPass = "PASS"
	statusFail = "FAIL"
	statusSkip = "SKIP"

	benchFlight = "BENCH101"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))
	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}
	return results
}

// quotePayload is a Cebu Pacific MNL-CEB economy seat departing in 21 days.
func quotePayload(passenger string) map[string]any {
	dep := time.Now().UTC().AddDate(0, 0, 21).Truncate(time.Hour)
	return map[string]any{
		"flight": map[string]any{
			"flight_number": benchFlight,
			"origin":        map[string]string{"code": "MNL", "city": "Manila"},
			"destination":   map[string]string{"code": "CEB", "city": "Cebu"},
			"airline":       map[string]string{"name": "Cebu Pacific", "code": "5J"},
			"departure":     dep.Format(time.RFC3339),
			"arrival":       dep.Add(85 * time.Minute).Format(time.RFC3339),
			"is_domestic":   true,
			"base_price":    3000,
		},
		"seat_class":     map[string]any{"name": "Economy"},
		"inventory":      map[string]int{"available": 60, "total": 180},
		"session_id":     "bench-session",
		"passenger_type": passenger,
	}
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	badDates := quotePayload("Adult")
	badDates["flight"].(map[string]any)["arrival"] = "2020-01-01T00:00:00Z"

	return []TestCase{
		{
			Name: "Env: Postgres connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: statusSkip, Note: "db not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: statusSkip, Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "Migration: apply (optional)",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration {
					return Result{Status: statusSkip, Note: "apply-migration=false"}
				}
				if r.db == nil {
					return Result{Status: statusFail, Note: "db not configured"}
				}
				sql, err := os.ReadFile(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				for _, s := range splitSQL(string(sql)) {
					if _, err := r.db.Exec(ctx, s); err != nil {
						return Result{Status: statusFail, Note: err.Error()}
					}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "Migration: tables exist",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: statusSkip, Note: "db not configured"}
				}
				tables, err := extractTables(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				for _, t := range tables {
					var exists bool
					err := r.db.QueryRow(ctx,
						"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
						t,
					).Scan(&exists)
					if err != nil {
						return Result{Status: statusFail, Note: err.Error()}
					}
					if !exists {
						return Result{Status: statusFail, Note: "missing table: " + t}
					}
				}
				return Result{Status: statusPass, Note: fmt.Sprintf("tables=%d", len(tables))}
			},
		},

		httpCaseMethod("API: health", http.MethodGet, base+"/health", nil, []int{200}),

		httpCase("Quote: adult economy", base+"/api/quotes", quotePayload("Adult"), []int{200}),
		httpCase("Quote: child economy", base+"/api/quotes", quotePayload("Child"), []int{200}),
		httpCase("Quote: arrival before departure -> 422", base+"/api/quotes", badDates, []int{422}),
		httpCase("Quote: malformed body -> 400", base+"/api/quotes", "not-json", []int{400}),
		{
			Name: "Quote: total includes taxes",
			Run:  quoteTotals,
		},

		httpCase("Search: record", base+"/api/flights/"+benchFlight+"/searches", nil, []int{202}),
		{
			Name: "Search: counter stored in Redis",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: statusSkip, Note: "redis not configured"}
				}
				n, err := r.redis.Get(ctx, "pricing:searches:"+benchFlight).Int()
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				if n < 1 {
					return Result{Status: statusFail, Note: fmt.Sprintf("searches=%d", n)}
				}
				return Result{Status: statusPass, Note: fmt.Sprintf("searches=%d", n)}
			},
		},

		httpCaseMethod("Calendar: Christmas impact", http.MethodGet, base+"/api/calendar/impact?date=2026-12-25", nil, []int{200}),
		httpCaseMethod("Calendar: bad date -> 400", http.MethodGet, base+"/api/calendar/impact?date=25-12-2026", nil, []int{400}),
		httpCaseMethod("Calendar: sale window", http.MethodGet, base+"/api/calendar/sale?date=2026-09-09&departure=2026-11-20", nil, []int{200}),
		httpCaseMethod("Calendar: Sinulog fiesta", http.MethodGet, base+"/api/calendar/fiesta?origin=MNL&destination=CEB&date=2027-01-19", nil, []int{200}),

		{
			Name: "Perf: quote throughput",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/api/quotes", quotePayload("Adult"))
			},
		},
	}
}

func httpCase(name, url string, body any, okStatuses []int) TestCase {
	return httpCaseMethod(name, http.MethodPost, url, body, okStatuses)
}

func httpCaseMethod(name, method, url string, body any, okStatuses []int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			resp, latency, err := r.do(ctx, method, url, body)
			if err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()

			note := fmt.Sprintf("status=%d", resp.StatusCode)
			if contains(okStatuses, resp.StatusCode) {
				return Result{Status: statusPass, Latency: latency, Note: note}
			}
			return Result{Status: statusFail, Latency: latency, Note: note}
		},
	}
}

func (r *Runner) do(ctx context.Context, method, url string, body any) (*http.Response, time.Duration, error) {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return nil, 0, err
		}
		reader = strings.NewReader(string(raw))
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	start := time.Now()
	resp, err := r.httpc.Do(req)
	return resp, time.Since(start), err
}

func quoteTotals(ctx context.Context, r *Runner) Result {
	resp, latency, err := r.do(ctx, http.MethodPost, r.cfg.BaseURL+"/api/quotes", quotePayload("Adult"))
	if err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
	}

	var q struct {
		Source      string  `json:"source"`
		RoundedFare float64 `json:"rounded_fare"`
		Total       float64 `json:"total_with_taxes"`
		Taxes       struct {
			Total float64 `json:"total"`
		} `json:"tax_breakdown"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&q); err != nil {
		return Result{Status: statusFail, Latency: latency, Note: err.Error()}
	}
	diff := q.RoundedFare + q.Taxes.Total - q.Total
	if q.RoundedFare <= 0 || diff > 0.01 || diff < -0.01 {
		return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("fare=%.2f taxes=%.2f total=%.2f", q.RoundedFare, q.Taxes.Total, q.Total)}
	}
	return Result{Status: statusPass, Latency: latency, Note: fmt.Sprintf("source=%s total=%.2f", q.Source, q.Total)}
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount, limited atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				resp, _, err := r.do(ctx, http.MethodPost, url, payload)
				if err != nil {
					errCount.Add(1)
					continue
				}
				_, _ = io.Copy(io.Discard, resp.Body)
				_ = resp.Body.Close()
				if resp.StatusCode == http.StatusTooManyRequests {
					limited.Add(1)
				}
				count.Add(1)
			}
		}()
	}
	wg.Wait()

	if count.Load() == 0 {
		return Result{Status: statusFail, Note: "no requests completed"}
	}
	rps := float64(count.Load()) / r.cfg.Duration.Seconds()
	return Result{Status: statusPass, Note: fmt.Sprintf("rps=%.1f errors=%d rate_limited=%d", rps, errCount.Load(), limited.Load())}
}

func contains(list []int, v int) bool {
	for _, i := range list {
		if i == v {
			return true
		}
	}
	return false
}

func extractTables(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	re := regexp.MustCompile(`(?i)create\s+table\s+if\s+not\s+exists\s+([a-zA-Z0-9_]+)`)
	matches := re.FindAllStringSubmatch(string(b), -1)
	tables := make([]string, 0, len(matches))
	for _, m := range matches {
		tables = append(tables, m[1])
	}
	return tables, nil
}

func splitSQL(sql string) []string {
	lines := strings.Split(sql, "\n")
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		l := strings.TrimSpace(line)
		if strings.HasPrefix(l, "--") || l == "" {
			continue
		}
		filtered = append(filtered, line)
	}
	parts := strings.Split(strings.Join(filtered, "\n"), ";")
	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
