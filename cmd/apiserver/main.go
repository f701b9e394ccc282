// API server entry point for InsuraIQ.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ronled86/InsuraIQ/internal/application/comparison"
	"github.com/ronled86/InsuraIQ/internal/application/extraction"
	"github.com/ronled86/InsuraIQ/internal/application/policies"
	"github.com/ronled86/InsuraIQ/internal/application/portfolio"
	"github.com/ronled86/InsuraIQ/internal/application/quotes"
	"github.com/ronled86/InsuraIQ/internal/config"
	"github.com/ronled86/InsuraIQ/internal/infrastructure/database/postgres"
	rediscache "github.com/ronled86/InsuraIQ/internal/infrastructure/database/redis"
	"github.com/ronled86/InsuraIQ/internal/infrastructure/messaging/kafka"
	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/logging"
	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/prometheus"
	"github.com/ronled86/InsuraIQ/internal/infrastructure/storage/minio"
	"github.com/ronled86/InsuraIQ/internal/intelligence/docai"
	httpserver "github.com/ronled86/InsuraIQ/internal/interfaces/http"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "insuraiq-apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logging.SetDefault(logger)
	logger.Info("starting InsuraIQ API server",
		logging.String("environment", cfg.App.Environment),
		logging.String("version", cfg.App.Version),
		logging.String("addr", cfg.Server.Addr()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := postgres.Migrate(cfg.Database, logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	pool, err := postgres.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	metrics := prometheus.New()

	cache, redisClient := buildCache(cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	publisher := buildPublisher(cfg, logger, metrics)
	defer publisher.Close()

	store := buildStore(cfg, logger)
	adapter := buildAdapter(ctx, cfg, logger)

	policyRepo := postgres.NewPolicyRepository(pool)
	historyRepo := postgres.NewCompareHistoryRepository(pool)

	extractor := extraction.NewService(extraction.DefaultRuleSet(), adapter,
		cfg.Extraction.AdapterTimeout, logger,
		extraction.WithMetrics(metrics))
	compareSvc := comparison.NewService(policyRepo, historyRepo, cache, publisher,
		cfg.Redis.DefaultTTL, logger,
		comparison.WithMetrics(metrics),
		comparison.WithComparedTopic(cfg.Kafka.ComparedTopic))
	policySvc := policies.NewService(policyRepo, extractor, store, publisher,
		compareSvc, logger,
		policies.WithMetrics(metrics),
		policies.WithExtractedTopic(cfg.Kafka.ExtractedTopic))
	portfolioSvc := portfolio.NewService(policyRepo, logger)
	quoteSvc := quotes.NewService(quotes.Config{
		ExternalURL: cfg.Quotes.ExternalURL,
		APIKey:      cfg.Quotes.APIKey,
		Timeout:     cfg.Quotes.Timeout,
	}, logger, quotes.WithMetrics(metrics))

	health := httpserver.NewHealthHandler(cfg.App.Version,
		readinessChecks(pool, cache), logger)

	handler := httpserver.NewRouter(httpserver.RouterDeps{
		Policies:   httpserver.NewPolicyHandler(policySvc, cfg.Server.MaxUploadBytes, logger),
		Comparison: httpserver.NewComparisonHandler(compareSvc, logger),
		Advisor:    httpserver.NewAdvisorHandler(portfolioSvc, logger),
		Quotes:     httpserver.NewQuotesHandler(quoteSvc, logger),
		Health:     health,
		Metrics:    metrics,
		Config:     cfg,
		Logger:     logger,
	})

	srv := httpserver.NewServer(cfg.Server, handler, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error("graceful shutdown failed", logging.Err(err))
		}
		<-errCh
	}

	logger.Info("server stopped")
	return nil
}

func buildCache(cfg *config.Config, logger logging.Logger) (rediscache.Cache, *rediscache.Client) {
	if !cfg.Redis.Enabled {
		return rediscache.NopCache{}, nil
	}
	client, err := rediscache.NewClient(cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, comparison caching disabled", logging.Err(err))
		return rediscache.NopCache{}, nil
	}
	return rediscache.NewResultCache(client, logger,
		rediscache.WithDefaultTTL(cfg.Redis.DefaultTTL)), client
}

func buildPublisher(cfg *config.Config, logger logging.Logger, metrics *prometheus.Metrics) kafka.Publisher {
	if !cfg.Kafka.Enabled {
		return kafka.NopPublisher{}
	}
	producer, err := kafka.NewProducer(cfg.Kafka, logger, kafka.WithMetrics(metrics))
	if err != nil {
		logger.Warn("kafka unavailable, event publication disabled", logging.Err(err))
		return kafka.NopPublisher{}
	}
	return producer
}

func buildStore(cfg *config.Config, logger logging.Logger) minio.DocumentStore {
	if !cfg.Storage.Enabled {
		return minio.NopStore{}
	}
	store, err := minio.NewStore(cfg.Storage, logger)
	if err != nil {
		logger.Warn("object storage unavailable, document retention disabled", logging.Err(err))
		return minio.NopStore{}
	}
	return store
}

func buildAdapter(ctx context.Context, cfg *config.Config, logger logging.Logger) docai.Adapter {
	if cfg.Extraction.Adapter != "gemini" || cfg.Extraction.GeminiAPIKey == "" {
		return docai.Disabled{}
	}
	gemini, err := docai.NewGemini(ctx, docai.GeminiConfig{
		APIKey:           cfg.Extraction.GeminiAPIKey,
		Model:            cfg.Extraction.GeminiModel,
		TruncationBudget: cfg.Extraction.TruncationBudget,
	}, logger)
	if err != nil {
		logger.Warn("gemini adapter unavailable, extraction runs rules only", logging.Err(err))
		return docai.Disabled{}
	}
	return gemini
}

func readinessChecks(pool *pgxpool.Pool, cache rediscache.Cache) map[string]httpserver.ReadinessCheck {
	return map[string]httpserver.ReadinessCheck{
		"database": func(ctx context.Context) error { return pool.Ping(ctx) },
		"cache":    func(ctx context.Context) error { return cache.Ping(ctx) },
	}
}
