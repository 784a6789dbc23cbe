// README: Config loader with env defaults for HTTP, storage, routing, the rate model and events.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App struct {
		Env          string
		LogLevel     string
		ModelVersion string
	}
	HTTP struct {
		Addr            string
		ShutdownTimeout time.Duration
	}
	DB struct {
		DSN string
	}
	Redis struct {
		Addr string
	}
	Rules struct {
		Dir      string
		CacheTTL time.Duration
	}
	Tolls struct {
		DataPath string
		RadiusM  float64
	}
	Maps struct {
		APIKey string
	}
	Predictor struct {
		URL        string
		Timeout    time.Duration
		MaxRetries int
	}
	Kafka struct {
		Brokers []string
	}
	// ClientKeys is "client:key,..." for the static key store. Ignored when
	// a database is configured.
	ClientKeys string
}

// Load reads .env files (default ".env"; missing files are skipped) and then
// the process environment. Variables already set in the environment win.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from LOGIT_* variables. All malformed values are
// reported together.
func FromEnv() (Config, error) {
	var cfg Config
	var errs []error

	cfg.App.Env = envOrDefault("LOGIT_ENV", "development")
	cfg.App.LogLevel = envOrDefault("LOGIT_LOG_LEVEL", "info")
	cfg.App.ModelVersion = envOrDefault("LOGIT_MODEL_VERSION", "freight_rf_v1")
	cfg.HTTP.Addr = envOrDefault("LOGIT_HTTP_ADDR", ":8080")
	cfg.HTTP.ShutdownTimeout = envOrDefaultDuration("LOGIT_SHUTDOWN_TIMEOUT", 10*time.Second, &errs)
	cfg.DB.DSN = os.Getenv("LOGIT_DB_DSN")
	cfg.Redis.Addr = os.Getenv("LOGIT_REDIS_ADDR")
	cfg.Rules.Dir = envOrDefault("LOGIT_RULES_DIR", "clients")
	cfg.Rules.CacheTTL = envOrDefaultDuration("LOGIT_RULES_CACHE_TTL", time.Minute, &errs)
	cfg.Tolls.DataPath = envOrDefault("LOGIT_TOLLS_DATA_PATH", "data/tolls_dubai.geojson")
	cfg.Tolls.RadiusM = envOrDefaultFloat("LOGIT_TOLL_RADIUS_M", 60, &errs)
	cfg.Maps.APIKey = os.Getenv("LOGIT_GOOGLE_MAPS_API_KEY")
	cfg.Predictor.URL = os.Getenv("LOGIT_PREDICTOR_URL")
	cfg.Predictor.Timeout = envOrDefaultDuration("LOGIT_PREDICTOR_TIMEOUT", 5*time.Second, &errs)
	cfg.Predictor.MaxRetries = envOrDefaultInt("LOGIT_PREDICTOR_MAX_RETRIES", 2, &errs)
	cfg.Kafka.Brokers = envList("LOGIT_KAFKA_BROKERS")
	cfg.ClientKeys = os.Getenv("LOGIT_CLIENT_KEYS")

	if cfg.Tolls.RadiusM <= 0 {
		errs = append(errs, fmt.Errorf("LOGIT_TOLL_RADIUS_M must be positive, got %v", cfg.Tolls.RadiusM))
	}
	if cfg.Predictor.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("LOGIT_PREDICTOR_MAX_RETRIES must not be negative, got %d", cfg.Predictor.MaxRetries))
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int, errs *[]error) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
			return def
		}
		return n
	}
	return def
}

func envOrDefaultFloat(key string, def float64, errs *[]error) float64 {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
			return def
		}
		return n
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration, errs *[]error) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
			return def
		}
		return d
	}
	return def
}

func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
