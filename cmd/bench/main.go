// README: Benchmark runner for the quote API; executes HTTP/DB/Redis checks plus in-process toll index runs and prints results.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	bench := NewRunner(cfg)
	results := bench.RunAll(ctx)

	fmt.Println("\n== Summary ==")
	s := summarize(results)
	fmt.Printf("PASS=%d FAIL=%d PENDING=%d SKIP=%d\n", s.pass, s.fail, s.pending, s.skipped)

	if cfg.Strict && s.pending > 0 {
		os.Exit(1)
	}
	if s.fail > 0 {
		os.Exit(1)
	}
}

type summary struct {
	pass, fail, pending, skipped int
}

func summarize(results []Result) summary {
	var s summary
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			s.pass++
		case StatusFail:
			s.fail++
		case StatusPending:
			s.pending++
		case StatusSkip:
			s.skipped++
		}
	}
	return s
}

type Config struct {
	BaseURL        string
	ClientID       string
	APIKey         string
	DSN            string
	RedisAddr      string
	ApplyMigration bool
	Strict         bool
	Timeout        time.Duration
	Concurrency    int
	Duration       time.Duration
	TollGates      int
	TollRoutes     int
}

func loadConfig() Config {
	var cfg Config
	flag.StringVar(&cfg.BaseURL, "base-url", envOrDefault("LOGIT_BENCH_BASE_URL", "http://localhost:8080"), "API base URL")
	flag.StringVar(&cfg.ClientID, "client-id", envOrDefault("LOGIT_BENCH_CLIENT_ID", "acme"), "client_id sent on authenticated routes")
	flag.StringVar(&cfg.APIKey, "api-key", os.Getenv("LOGIT_BENCH_API_KEY"), "API key sent on authenticated routes")
	flag.StringVar(&cfg.DSN, "dsn", os.Getenv("LOGIT_DB_DSN"), "Postgres DSN (empty skips DB checks)")
	flag.StringVar(&cfg.RedisAddr, "redis", os.Getenv("LOGIT_REDIS_ADDR"), "Redis address (empty skips Redis checks)")
	flag.BoolVar(&cfg.ApplyMigration, "apply-migration", envOrDefaultBool("LOGIT_BENCH_APPLY_MIGRATION", false), "Apply the schema before tests")
	flag.BoolVar(&cfg.Strict, "strict", envOrDefaultBool("LOGIT_BENCH_STRICT", false), "Fail on pending tests")
	flag.DurationVar(&cfg.Timeout, "timeout", envOrDefaultDuration("LOGIT_BENCH_TIMEOUT", 90*time.Second), "Total timeout")
	flag.IntVar(&cfg.Concurrency, "concurrency", envOrDefaultInt("LOGIT_BENCH_CONCURRENCY", 20), "Concurrency for perf tests")
	flag.DurationVar(&cfg.Duration, "duration", envOrDefaultDuration("LOGIT_BENCH_DURATION", 10*time.Second), "Duration for perf tests")
	flag.IntVar(&cfg.TollGates, "toll-gates", envOrDefaultInt("LOGIT_BENCH_TOLL_GATES", 2000), "Synthetic gates for the index benchmark")
	flag.IntVar(&cfg.TollRoutes, "toll-routes", envOrDefaultInt("LOGIT_BENCH_TOLL_ROUTES", 200), "Synthetic routes for the index benchmark")
	flag.Parse()
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "1" || v == "true" || v == "yes"
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
