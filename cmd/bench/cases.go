// README: Smoke cases: connectivity, schema, fare and driver endpoints, and load checks.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"taxi/internal/migrations"
)

const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
	StatusSkip = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
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

var (
	oranjestad = map[string]float64{"lat": 12.5092, "lng": -70.0086}
	palmBeach  = map[string]float64{"lat": 12.5150, "lng": -70.0200}
	sanNicolas = map[string]float64{"lat": 12.4380, "lng": -69.8800}
)

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Name: "Env: Postgres connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: StatusSkip, Note: "db not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: StatusSkip, Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "Migration: apply (optional)",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration {
					return Result{Status: StatusSkip, Note: "apply-migration=false"}
				}
				if r.cfg.DSN == "" {
					return Result{Status: StatusFail, Note: "db not configured"}
				}
				if err := migrations.Up(ctx, r.cfg.DSN); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "Migration: tables exist",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: StatusSkip, Note: "db not configured"}
				}
				tables, err := migrations.Tables()
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				for _, t := range tables {
					var exists bool
					err := r.db.QueryRow(ctx,
						"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
						t,
					).Scan(&exists)
					if err != nil {
						return Result{Status: StatusFail, Note: err.Error()}
					}
					if !exists {
						return Result{Status: StatusFail, Note: "missing table: " + t}
					}
				}
				return Result{Status: StatusPass}
			},
		},

		httpCase("API: health", http.MethodGet, base+"/health", nil, http.StatusOK, nil),
		httpCase("API: rate table", http.MethodGet, base+"/api/rides/tiers", nil, http.StatusOK, nil),

		// Fares
		httpCase("Fare: standard Oranjestad -> Palm Beach", http.MethodPost, base+"/api/fares/estimate", map[string]any{
			"pickup": oranjestad, "dropoff": palmBeach, "ride_tier": "standard",
		}, http.StatusOK, expectTotalFare(10.99)),
		httpCase("Fare: xl Oranjestad -> San Nicolas", http.MethodPost, base+"/api/fares/estimate", map[string]any{
			"pickup": oranjestad, "dropoff": sanNicolas, "ride_tier": "xl",
		}, http.StatusOK, expectTotalFare(99.88)),
		httpCase("Fare: same point -> base + 5 min", http.MethodPost, base+"/api/fares/estimate", map[string]any{
			"pickup": oranjestad, "dropoff": oranjestad, "ride_tier": "standard",
		}, http.StatusOK, expectTotalFare(7.50)),
		httpCase("Fare: unknown tier -> 400", http.MethodPost, base+"/api/fares/estimate", map[string]any{
			"pickup": oranjestad, "dropoff": palmBeach, "ride_tier": "economy",
		}, http.StatusBadRequest, nil),
		httpCase("Fare: invalid coords -> 400", http.MethodPost, base+"/api/fares/estimate", map[string]any{
			"pickup": map[string]float64{"lat": 123, "lng": 456}, "dropoff": palmBeach, "ride_tier": "standard",
		}, http.StatusBadRequest, nil),
		httpCase("Fare: all tiers", http.MethodPost, base+"/api/fares/estimate/all", map[string]any{
			"pickup": oranjestad, "dropoff": palmBeach,
		}, http.StatusOK, nil),

		// Drivers
		httpCase("Driver: register bench-sedan", http.MethodPut, base+"/api/drivers/bench-sedan", map[string]any{
			"is_online": true, "is_available": true, "vehicle_tier": "sedan", "current_location": palmBeach,
		}, http.StatusOK, nil),
		httpCase("Driver: register bench-far", http.MethodPut, base+"/api/drivers/bench-far", map[string]any{
			"is_online": true, "is_available": true, "vehicle_tier": "suv", "current_location": sanNicolas,
		}, http.StatusOK, nil),
		httpCase("Driver: nearby standard", http.MethodGet, base+"/api/drivers/nearby?lat=12.5092&lng=-70.0086&ride_tier=standard", nil,
			http.StatusOK, expectDriverListed("bench-sedan", "bench-far")),
		httpCase("Driver: xl skips sedan", http.MethodGet, base+"/api/drivers/nearby?lat=12.5092&lng=-70.0086&ride_tier=xl", nil,
			http.StatusOK, expectDriverListed("", "bench-sedan")),
		httpCase("Driver: unknown vehicle tier -> 400", http.MethodPut, base+"/api/drivers/bench-bad", map[string]any{
			"is_online": true, "is_available": true, "vehicle_tier": "bus", "current_location": palmBeach,
		}, http.StatusBadRequest, nil),
		httpCase("Driver: remove bench-sedan", http.MethodDelete, base+"/api/drivers/bench-sedan", nil, http.StatusNoContent, nil),
		httpCase("Driver: remove bench-far", http.MethodDelete, base+"/api/drivers/bench-far", nil, http.StatusNoContent, nil),

		// Load
		{
			Name: "Load: concurrent driver registration",
			Run: func(ctx context.Context, r *Runner) Result {
				return concurrentRegister(ctx, r, base)
			},
		},
		{
			Name: "Load: fare estimate throughput",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, http.MethodPost, base+"/api/fares/estimate", map[string]any{
					"pickup": oranjestad, "dropoff": sanNicolas, "ride_tier": "premium",
				})
			},
		},
		{
			Name: "Load: nearby lookup throughput",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, http.MethodGet, base+"/api/drivers/nearby?lat=12.5092&lng=-70.0086&ride_tier=express", nil)
			},
		},
	}
}

// bodyCheck inspects a successful response body.
type bodyCheck func(body []byte) error

func expectTotalFare(want float64) bodyCheck {
	return func(body []byte) error {
		var q struct {
			Estimate struct {
				TotalFare float64 `json:"total_fare"`
				Currency  string  `json:"currency"`
			} `json:"estimate"`
		}
		if err := json.Unmarshal(body, &q); err != nil {
			return err
		}
		if q.Estimate.TotalFare != want || q.Estimate.Currency != "AWG" {
			return fmt.Errorf("total=%.2f %s, want %.2f AWG", q.Estimate.TotalFare, q.Estimate.Currency, want)
		}
		return nil
	}
}

// expectDriverListed checks that present (if set) is in the list and absent is not.
func expectDriverListed(present, absent string) bodyCheck {
	return func(body []byte) error {
		var resp struct {
			Drivers []struct {
				ID string `json:"id"`
			} `json:"drivers"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return err
		}
		found := present == ""
		for _, d := range resp.Drivers {
			if d.ID == absent {
				return fmt.Errorf("%s should not be listed", absent)
			}
			if d.ID == present {
				found = true
			}
		}
		if !found {
			return fmt.Errorf("%s missing", present)
		}
		return nil
	}
}

func httpCase(name, method, url string, body any, wantStatus int, check bodyCheck) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			status, respBody, latency, err := r.do(ctx, method, url, body)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			if status != wantStatus {
				return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("status=%d want=%d", status, wantStatus)}
			}
			if check != nil {
				if err := check(respBody); err != nil {
					return Result{Status: StatusFail, Latency: latency, Note: err.Error()}
				}
			}
			return Result{Status: StatusPass, Latency: latency, Note: fmt.Sprintf("status=%d", status)}
		},
	}
}

func (r *Runner) do(ctx context.Context, method, url string, body any) (int, []byte, time.Duration, error) {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	start := time.Now()
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	return resp.StatusCode, respBody, time.Since(start), err
}

func concurrentRegister(ctx context.Context, r *Runner, base string) Result {
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			url := fmt.Sprintf("%s/api/drivers/bench-load-%d", base, i)
			status, _, _, err := r.do(ctx, http.MethodPut, url, map[string]any{
				"is_online": true, "is_available": true, "vehicle_tier": "luxury", "current_location": oranjestad,
			})
			if err == nil && status == http.StatusOK {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	status, body, _, err := r.do(ctx, http.MethodGet, base+"/api/drivers/nearby?lat=12.5092&lng=-70.0086&ride_tier=premium", nil)
	for i := 0; i < r.cfg.Concurrency; i++ {
		_, _, _, _ = r.do(ctx, http.MethodDelete, fmt.Sprintf("%s/api/drivers/bench-load-%d", base, i), nil)
	}
	if err != nil || status != http.StatusOK {
		return Result{Status: StatusFail, Note: fmt.Sprintf("nearby status=%d err=%v", status, err)}
	}
	var resp struct {
		Count int `json:"count"`
	}
	_ = json.Unmarshal(body, &resp)
	if ok != r.cfg.Concurrency || resp.Count < ok {
		return Result{Status: StatusFail, Note: fmt.Sprintf("registered=%d listed=%d", ok, resp.Count)}
	}
	return Result{Status: StatusPass, Note: fmt.Sprintf("registered=%d", ok)}
}

func perfLoad(ctx context.Context, r *Runner, method, url string, payload any) Result {
	end := time.Now().Add(r.cfg.Duration)
	var count int64
	var errCount int64
	var mu sync.Mutex
	wg := sync.WaitGroup{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				status, _, _, err := r.do(ctx, method, url, payload)
				mu.Lock()
				if err != nil || status >= 500 {
					errCount++
				} else {
					count++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: StatusFail, Note: "no requests completed"}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: StatusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount)}
}
