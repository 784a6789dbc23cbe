// README: Entry point; loads config, wires services, serves HTTP until SIGINT/SIGTERM.
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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"logit/internal/config"
	"logit/internal/events"
	httptransport "logit/internal/http"
	"logit/internal/infra"
	"logit/internal/maps"
	"logit/internal/modules/clients"
	"logit/internal/modules/pricing"
	"logit/internal/modules/quote"
	"logit/internal/modules/route"
	"logit/internal/modules/tolls"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := infra.NewLogger(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("logit-api stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var dbPool *pgxpool.Pool
	if cfg.DB.DSN != "" {
		pool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := infra.Migrate(ctx, pool); err != nil {
			return err
		}
		dbPool = pool
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			return err
		}
		defer rdb.Close()
		redisClient = rdb
	}

	// Rules: Postgres when configured, else clients/<id>/pricing_rules.json,
	// optionally behind the Redis cache.
	var ruleStore pricing.RuleStore = pricing.NewFileStore(cfg.Rules.Dir)
	if dbPool != nil {
		ruleStore = pricing.NewStore(dbPool)
	}
	var rulesCache *pricing.CachedStore
	if redisClient != nil {
		cached := pricing.NewCachedStore(ruleStore, redisClient, cfg.Rules.CacheTTL, logger)
		ruleStore = cached
		rulesCache = cached
	}
	pricingSvc := pricing.NewService(ruleStore, nil, logger)

	var keyStore clients.KeyStore
	if dbPool != nil {
		keyStore = clients.NewStore(dbPool)
	} else {
		keys, err := clients.ParseStaticKeys(cfg.ClientKeys)
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			logger.Warn("no client keys configured, every authenticated route will answer 401")
		}
		keyStore = clients.NewStaticKeyStore(keys)
	}
	clientSvc := clients.NewService(keyStore, logger)

	catalog, stats, err := tolls.LoadCatalogFile(cfg.Tolls.DataPath, logger)
	if err != nil {
		return err
	}
	logger.Info("toll catalog loaded", zap.String("path", cfg.Tolls.DataPath), zap.Int("gates", stats.Loaded), zap.Int("skipped", stats.Skipped))
	tollSvc := tolls.NewService(catalog, cfg.Tolls.RadiusM, logger)
	go reloadOnHangup(ctx, tollSvc, cfg.Tolls.DataPath)

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewProducer(cfg.Kafka.Brokers, logger)
	}
	defer publisher.Close()

	var predictor quote.Predictor
	if cfg.Predictor.URL != "" {
		predictor = quote.NewHTTPPredictor(quote.PredictorConfig{
			BaseURL:    cfg.Predictor.URL,
			Timeout:    cfg.Predictor.Timeout,
			MaxRetries: uint64(cfg.Predictor.MaxRetries),
		}, logger)
	} else {
		logger.Warn("LOGIT_PREDICTOR_URL not set, /v1/predict will answer 503")
	}
	quoteSvc := quote.NewService(predictor, pricingSvc, cfg.App.ModelVersion, logger, quote.WithPublisher(publisher))

	deps := httptransport.ServerDeps{
		Auth:    clientSvc,
		Quote:   quoteSvc,
		Pricing: pricingSvc,
		Tolls:   tollSvc,
		Logger:  logger,
		Version: cfg.App.ModelVersion,
	}
	if rulesCache != nil {
		deps.RulesCache = rulesCache
	}
	if cfg.Maps.APIKey != "" {
		router, err := maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			return err
		}
		places, err := maps.NewPlacesService(cfg.Maps.APIKey)
		if err != nil {
			return err
		}
		deps.Routes = route.NewService(router, tollSvc, logger)
		deps.Suggester = places
	} else {
		logger.Warn("LOGIT_GOOGLE_MAPS_API_KEY not set, routing endpoints disabled")
	}

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httptransport.NewServer(deps).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// reloadOnHangup swaps in a freshly loaded toll catalog on every SIGHUP.
func reloadOnHangup(ctx context.Context, svc *tolls.Service, path string) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			_, _ = svc.Reload(path)
		}
	}
}
