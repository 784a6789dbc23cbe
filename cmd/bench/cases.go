// README: Benchmark test cases for the quote API; includes HTTP, DB, Redis, toll index and performance checks.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"logit/internal/infra"
	"logit/internal/modules/tolls"
)

const (
	StatusPass    = "PASS"
	StatusFail    = "FAIL"
	StatusPending = "PENDING"
	StatusSkip    = "SKIP"
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
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
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

// authenticate sets the client headers when a key is configured.
func (r *Runner) authenticate(req *http.Request) {
	if r.cfg.APIKey == "" {
		return
	}
	req.Header.Set("x-client-id", r.cfg.ClientID)
	req.Header.Set("x-api-key", r.cfg.APIKey)
}

func samplePredictRequest() map[string]any {
	return map[string]any{
		"client_type":              "enterprise",
		"origin":                   "Jebel Ali",
		"destination":              "Abu Dhabi",
		"distance_km":              140.5,
		"load_type":                "general",
		"load_weight_tons":         12,
		"vehicle_type":             "trailer",
		"fuel_price_aed_per_litre": 2.85,
		"salik_gates":              2,
		"salik_charges_aed":        8,
		"customs_fees_aed":         0,
		"waiting_time_hours":       1.5,
		"contract_type":            "spot",
		"backhaul_available":       0,
		"month":                    7,
		"season":                   "summer",
		"weather":                  "clear",
		"peak_demand_factor":       1.1,
	}
}

// sampleTollPath runs along Sheikh Zayed Road as [lon, lat] pairs.
func sampleTollPath() [][2]float64 {
	return [][2]float64{
		{55.2708, 25.2048},
		{55.2602, 25.1954},
		{55.2441, 25.1810},
		{55.2187, 25.1569},
	}
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Name:  "Env: Postgres connect",
			Focus: "rules and key stores reachable",
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
			Name:  "Env: Redis connect",
			Focus: "rules cache reachable",
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
			Name:  "Schema: apply (optional)",
			Focus: "apply the store schema",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration {
					return Result{Status: StatusSkip, Note: "apply-migration=false"}
				}
				if r.db == nil {
					return Result{Status: StatusFail, Note: "db not configured"}
				}
				if err := infra.Migrate(ctx, r.db); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name:  "Schema: tables exist",
			Focus: "every table in the schema is present",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: StatusSkip, Note: "db not configured"}
				}
				for _, t := range extractTables(infra.Schema) {
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

		httpCaseMethod("API: health", http.MethodGet, base+"/health", nil, false, []int{200}, nil),
		{
			Name:  "API: metrics exposed",
			Focus: "prometheus exposition includes quote counters",
			Run: func(ctx context.Context, r *Runner) Result {
				req, _ := http.NewRequestWithContext(ctx, http.MethodGet, base+"/metrics", nil)
				start := time.Now()
				resp, err := r.httpc.Do(req)
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				defer resp.Body.Close()
				body, _ := io.ReadAll(resp.Body)
				latency := time.Since(start)
				if resp.StatusCode != http.StatusOK {
					return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
				}
				if !strings.Contains(string(body), "logit_toll_catalog_gates") {
					return Result{Status: StatusFail, Latency: latency, Note: "logit metrics missing"}
				}
				return Result{Status: StatusPass, Latency: latency}
			},
		},

		// Auth
		httpCaseMethod("Auth: rules without key -> 401", http.MethodGet, base+"/v1/rules", nil, false, []int{401}, nil),
		httpCaseMethod("Auth: rules with key", http.MethodGet, base+"/v1/rules", nil, true, []int{200}, []int{401}),

		// Quote
		httpCase("Quote: predict (valid)", base+"/v1/predict", samplePredictRequest(), true, []int{200}, []int{401, 503}),
		httpCase("Quote: predict (missing fields -> 400)", base+"/v1/predict", map[string]any{}, true, []int{400}, []int{401}),
		httpCase("Quote: predict (month out of range -> 400)", base+"/v1/predict", withField(samplePredictRequest(), "month", 13), true, []int{400}, []int{401}),
		httpCase("Quote: predict with pallets", base+"/v1/predict", withField(samplePredictRequest(), "pallets", map[string]any{
			"count":         4,
			"dimensions_cm": map[string]any{"length_cm": 120, "width_cm": 80, "height_cm": 144},
			"stackable":     false,
		}), true, []int{200}, []int{401, 503}),
		manualCase("Quote: rules change reflected after cache invalidation", "edit client rules then DELETE /v1/rules/cache"),

		// Tolls
		httpCaseMethod("Tolls: catalog", http.MethodGet, base+"/v1/tolls/catalog", nil, false, []int{200}, nil),
		httpCase("Tolls: match path", base+"/v1/tolls/match", map[string]any{"path": sampleTollPath()}, true, []int{200}, []int{401}),
		httpCase("Tolls: invalid coordinate -> 400", base+"/v1/tolls/match", map[string]any{"path": [][2]float64{{200, 95}}}, true, []int{400}, []int{401}),
		{
			Name:  "Tolls: grid index matches brute force",
			Focus: "identical results on a synthetic network",
			Run: func(ctx context.Context, r *Runner) Result {
				rep := compareIndexes(time.Now().UnixNano(), r.cfg.TollGates, r.cfg.TollRoutes, tolls.DefaultRadiusMeters)
				if rep.Mismatch != "" {
					return Result{Status: StatusFail, Note: rep.Mismatch}
				}
				return Result{Status: StatusPass, Latency: rep.Grid, Note: fmt.Sprintf("routes=%d matches=%d brute=%s grid=%s", rep.Routes, rep.Matches, rep.BruteForce, rep.Grid)}
			},
		},
		manualCase("Tolls: SIGHUP reload", "replace the catalog file and send SIGHUP; GET /v1/tolls/catalog must report the new count"),

		// Route and geo
		httpCaseMethod("Route: features", http.MethodGet, base+"/v1/route_features?origin=Jebel+Ali&destination=Abu+Dhabi", nil, true, []int{200}, []int{401, 503}),
		httpCaseMethod("Route: features missing destination -> 400", http.MethodGet, base+"/v1/route_features?origin=Jebel+Ali", nil, true, []int{400}, []int{401, 503}),
		httpCaseMethod("Geo: suggest", http.MethodGet, base+"/v1/geo/suggest?q=Jebel", nil, false, []int{200}, []int{503}),

		// Pallets
		httpCase("Pallets: summarize", base+"/v1/pallets", map[string]any{
			"weight_kg": 3200,
			"pallets": map[string]any{
				"count":         4,
				"dimensions_cm": map[string]any{"length_cm": 120, "width_cm": 80, "height_cm": 144},
			},
		}, false, []int{200}, nil),
		httpCase("Pallets: zero count -> 400", base+"/v1/pallets", map[string]any{
			"pallets": map[string]any{
				"count":         0,
				"dimensions_cm": map[string]any{"length_cm": 120, "width_cm": 80, "height_cm": 144},
			},
		}, false, []int{400}, nil),

		// Error handling
		manualCase("Error: predictor down -> 502", "stop the model service and call /v1/predict"),
		manualCase("Error: Redis down -> rules served from Postgres", "stop Redis and call /v1/rules"),

		// Performance
		{
			Name:  "Perf: predict throughput",
			Focus: "sustained quotes per second",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/v1/predict", samplePredictRequest())
			},
		},
		{
			Name:  "Perf: toll match throughput",
			Focus: "sustained match requests per second",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/v1/tolls/match", map[string]any{"path": sampleTollPath()})
			},
		},
	}
}

func withField(body map[string]any, key string, v any) map[string]any {
	out := make(map[string]any, len(body)+1)
	for k, val := range body {
		out[k] = val
	}
	out[key] = v
	return out
}

func httpCase(name, url string, body any, auth bool, okStatuses, pendingStatuses []int) TestCase {
	return httpCaseMethod(name, http.MethodPost, url, body, auth, okStatuses, pendingStatuses)
}

func httpCaseMethod(name, method, url string, body any, auth bool, okStatuses, pendingStatuses []int) TestCase {
	return TestCase{
		Name:  name,
		Focus: "HTTP API",
		Run: func(ctx context.Context, r *Runner) Result {
			var reader io.Reader
			if body != nil {
				b, _ := json.Marshal(body)
				reader = bytes.NewReader(b)
			}
			req, _ := http.NewRequestWithContext(ctx, method, url, reader)
			req.Header.Set("Content-Type", "application/json")
			if auth {
				r.authenticate(req)
			}
			start := time.Now()
			resp, err := r.httpc.Do(req)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			latency := time.Since(start)
			return Result{Status: classify(resp.StatusCode, okStatuses, pendingStatuses), Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
		},
	}
}

func classify(status int, okStatuses, pendingStatuses []int) string {
	if contains(okStatuses, status) {
		return StatusPass
	}
	if contains(pendingStatuses, status) {
		return StatusPending
	}
	return StatusFail
}

func manualCase(name, note string) TestCase {
	return TestCase{
		Name:  name,
		Focus: "Manual",
		Run: func(ctx context.Context, r *Runner) Result {
			return Result{Status: StatusSkip, Note: note}
		},
	}
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	b, _ := json.Marshal(payload)
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount, non2xx atomic.Int64
	wg := sync.WaitGroup{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
				req.Header.Set("Content-Type", "application/json")
				r.authenticate(req)
				resp, err := r.httpc.Do(req)
				if err != nil {
					errCount.Add(1)
					continue
				}
				_, _ = io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				if resp.StatusCode/100 != 2 {
					non2xx.Add(1)
				}
				count.Add(1)
			}
		}()
	}
	wg.Wait()

	if count.Load() == 0 {
		return Result{Status: StatusFail, Note: "no requests completed"}
	}
	if non2xx.Load() == count.Load() {
		return Result{Status: StatusPending, Note: "every request was rejected"}
	}
	rps := float64(count.Load()) / r.cfg.Duration.Seconds()
	return Result{Status: StatusPass, Note: fmt.Sprintf("rps=%.1f errors=%d non2xx=%d", rps, errCount.Load(), non2xx.Load())}
}

func contains(list []int, v int) bool {
	for _, i := range list {
		if i == v {
			return true
		}
	}
	return false
}

var createTableRe = regexp.MustCompile(`(?i)create\s+table\s+if\s+not\s+exists\s+([a-zA-Z0-9_]+)`)

func extractTables(schema string) []string {
	matches := createTableRe.FindAllStringSubmatch(schema, -1)
	tables := make([]string, 0, len(matches))
	for _, m := range matches {
		tables = append(tables, m[1])
	}
	return tables
}
