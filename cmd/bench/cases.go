// README: Benchmark cases: environment, migrations, quote scenarios, cache, orders, and throughput.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"linguaschool/internal/infra"
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
	Name  string
	Focus string
	Run   func(ctx context.Context, r *Runner) Result
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
		r.redis = infra.NewRedis(r.cfg.RedisAddr, "", 0)
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-7s %s", res.Status, tc.Name)
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

// Quote scenarios leave the date empty so neither the calendar nor the
// early-registration window depends on when the bench runs.
func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Name:  "Env: Postgres connect",
			Focus: "quote history store reachable",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name:  "Env: Redis connect",
			Focus: "quote cache reachable",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: "FAIL", Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name:  "Migration: apply (optional)",
			Focus: "embedded migrations up",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration {
					return Result{Status: "SKIP", Note: "apply-migration=false"}
				}
				if err := infra.Migrate(r.cfg.DSN); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name:  "Migration: quote_snapshots exists",
			Focus: "history table present",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				var exists bool
				err := r.db.QueryRow(ctx,
					"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
					"quote_snapshots",
				).Scan(&exists)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if !exists {
					return Result{Status: "FAIL", Note: "missing table: quote_snapshots"}
				}
				return Result{Status: "PASS"}
			},
		},
		httpCaseMethod("API: health", http.MethodGet, base+"/health", nil, []int{200}, nil),

		// Quotes
		quoteCase("Quote: empty form -> defaults", base, map[string]any{}, 100),
		quoteCase("Quote: morning course", base, map[string]any{
			"kind": "course", "fee": 200, "total_length": 8, "time": "10:00", "persons": 1,
		}, 2000),
		quoteCase("Quote: evening tutor + assessment", base, map[string]any{
			"kind": "tutor", "fee": 500, "duration": 2, "time": "1830", "persons": 2, "assessment": true,
		}, 4300),
		quoteCase("Quote: group enrollment", base, map[string]any{
			"kind": "course", "fee": 100, "total_length": 2, "time": "12:00", "persons": 5,
		}, 850),
		quoteCase("Quote: intensive course", base, map[string]any{
			"kind": "course", "fee": 100, "total_length": 4, "week_length": 5, "time": "13:00",
		}, 480),
		quoteCase("Quote: percentage add-ons stack", base, map[string]any{
			"kind": "course", "fee": 100, "total_length": 10, "time": "13:00", "excursions": true, "interactive": true,
		}, 1875),
		httpCase("Quote: malformed body -> 400", base+"/api/quotes", "{", []int{400}, nil),

		// Calendar
		calendarCase("Calendar: fixed holiday", base, "2027-11-04", true),
		calendarCase("Calendar: ordinary weekday", base, "2027-11-03", false),
		calendarCase("Calendar: saturday", base, "2027-11-06", true),
		httpCaseMethod("Calendar: bad date -> 400", http.MethodGet, base+"/api/calendar/nope", nil, []int{400}, nil),

		{
			Name:  "Cache: quote key written",
			Focus: "Redis holds pricing:quote:* after quoting",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: "FAIL", Note: "redis not configured"}
				}
				keys, _, err := r.redis.Scan(ctx, 0, "pricing:quote:*", 100).Result()
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if len(keys) == 0 {
					return Result{Status: "FAIL", Note: "no cached quotes"}
				}
				return Result{Status: "PASS", Note: fmt.Sprintf("keys>=%d", len(keys))}
			},
		},

		// Orders (remote service, needs a key)
		httpCaseMethod("Order: list without key -> 401", http.MethodGet, base+"/api/orders", nil, []int{401}, nil),
		httpCase("Order: submit without course/tutor -> 400", base+"/api/orders?api_key=bench", map[string]any{
			"date": "2030-01-10", "time": "10:00", "persons": 1,
		}, []int{400}, nil),
		{
			Name:  "Order: list with key",
			Focus: "remote order service reachable",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.cfg.APIKey == "" {
					return Result{Status: "SKIP", Note: "api-key not set"}
				}
				return doCase(ctx, r, http.MethodGet, base+"/api/orders?api_key="+r.cfg.APIKey, nil, []int{200}, []int{502, 503})
			},
		},
		manualCase("Order: submit/update/delete round trip", "needs a disposable course id on the remote service"),

		// Concurrency
		{
			Name:  "Concurrency: identical quotes agree",
			Focus: "engine is deterministic under load",
			Run: func(ctx context.Context, r *Runner) Result {
				return concurrentQuotes(ctx, r, base+"/api/quotes")
			},
		},

		// Performance
		{
			Name:  "Perf: quote throughput",
			Focus: "POST /api/quotes",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/api/quotes", map[string]any{
					"kind": "course", "fee": 300, "total_length": 6, "time": "19:00", "persons": 3, "supplementary": true,
				})
			},
		},
	}
}

func httpCase(name, url string, body any, okStatuses, pendingStatuses []int) TestCase {
	return httpCaseMethod(name, http.MethodPost, url, body, okStatuses, pendingStatuses)
}

func httpCaseMethod(name, method, url string, body any, okStatuses, pendingStatuses []int) TestCase {
	return TestCase{
		Name:  name,
		Focus: "HTTP API",
		Run: func(ctx context.Context, r *Runner) Result {
			return doCase(ctx, r, method, url, body, okStatuses, pendingStatuses)
		},
	}
}

func doCase(ctx context.Context, r *Runner, method, url string, body any, okStatuses, pendingStatuses []int) Result {
	start := time.Now()
	status, _, err := r.send(ctx, method, url, body)
	if err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	latency := time.Since(start)
	note := fmt.Sprintf("status=%d", status)

	if contains(okStatuses, status) {
		return Result{Status: "PASS", Latency: latency, Note: note}
	}
	if contains(pendingStatuses, status) {
		return Result{Status: "PENDING", Latency: latency, Note: note}
	}
	return Result{Status: "FAIL", Latency: latency, Note: note}
}

// send posts body as JSON; a string body is sent verbatim.
func (r *Runner) send(ctx context.Context, method, url string, body any) (int, []byte, error) {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return 0, nil, err
		}
		reader = strings.NewReader(string(raw))
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	return resp.StatusCode, data, err
}

func quoteCase(name, base string, form map[string]any, want int64) TestCase {
	return TestCase{
		Name:  name,
		Focus: "pricing engine",
		Run: func(ctx context.Context, r *Runner) Result {
			start := time.Now()
			status, data, err := r.send(ctx, http.MethodPost, base+"/api/quotes", form)
			if err != nil {
				return Result{Status: "FAIL", Note: err.Error()}
			}
			latency := time.Since(start)
			if status != http.StatusOK {
				return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("status=%d", status)}
			}
			var q struct {
				Price     int64    `json:"price"`
				Breakdown []string `json:"breakdown"`
			}
			if err := json.Unmarshal(data, &q); err != nil {
				return Result{Status: "FAIL", Latency: latency, Note: err.Error()}
			}
			if q.Price != want {
				return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("price=%d want=%d %v", q.Price, want, q.Breakdown)}
			}
			return Result{Status: "PASS", Latency: latency, Note: fmt.Sprintf("price=%d", q.Price)}
		},
	}
}

func calendarCase(name, base, date string, wantWeekend bool) TestCase {
	return TestCase{
		Name:  name,
		Focus: "calendar rules",
		Run: func(ctx context.Context, r *Runner) Result {
			status, data, err := r.send(ctx, http.MethodGet, base+"/api/calendar/"+date, nil)
			if err != nil {
				return Result{Status: "FAIL", Note: err.Error()}
			}
			if status != http.StatusOK {
				return Result{Status: "FAIL", Note: fmt.Sprintf("status=%d", status)}
			}
			var c struct {
				WeekendOrHoliday bool `json:"weekend_or_holiday"`
			}
			if err := json.Unmarshal(data, &c); err != nil {
				return Result{Status: "FAIL", Note: err.Error()}
			}
			if c.WeekendOrHoliday != wantWeekend {
				return Result{Status: "FAIL", Note: fmt.Sprintf("weekend_or_holiday=%v", c.WeekendOrHoliday)}
			}
			return Result{Status: "PASS"}
		},
	}
}

func manualCase(name, note string) TestCase {
	return TestCase{
		Name:  name,
		Focus: "Manual",
		Run: func(ctx context.Context, r *Runner) Result {
			return Result{Status: "SKIP", Note: note}
		},
	}
}

func concurrentQuotes(ctx context.Context, r *Runner, url string) Result {
	form := map[string]any{
		"kind": "course", "fee": 250, "total_length": 8, "time": "18:00", "persons": 6, "interactive": true,
	}
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		prices = map[int64]int{}
		failed int
	)
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, data, err := r.send(ctx, http.MethodPost, url, form)
			var q struct {
				Price int64 `json:"price"`
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil || status != http.StatusOK || json.Unmarshal(data, &q) != nil {
				failed++
				return
			}
			prices[q.Price]++
		}()
	}
	wg.Wait()

	if len(prices) != 1 {
		return Result{Status: "FAIL", Note: fmt.Sprintf("distinct prices=%v failed=%d", prices, failed)}
	}
	if failed > 0 {
		// Likely the rate limiter; the prices that came back still agree.
		return Result{Status: "PENDING", Note: fmt.Sprintf("failed=%d", failed)}
	}
	return Result{Status: "PASS", Note: fmt.Sprintf("requests=%d", r.cfg.Concurrency)}
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount, limited atomic.Int64
	wg := sync.WaitGroup{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				status, _, err := r.send(ctx, http.MethodPost, url, payload)
				switch {
				case err != nil:
					errCount.Add(1)
				case status == http.StatusTooManyRequests:
					limited.Add(1)
				default:
					count.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	if count.Load() == 0 {
		return Result{Status: "FAIL", Note: "no requests completed"}
	}
	rps := float64(count.Load()) / r.cfg.Duration.Seconds()
	return Result{Status: "PASS", Note: fmt.Sprintf("rps=%.1f errors=%d rate_limited=%d", rps, errCount.Load(), limited.Load())}
}

func contains(list []int, v int) bool {
	for _, i := range list {
		if i == v {
			return true
		}
	}
	return false
}
