package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/go_cart/assistant-service/internal/assistant"
	"github.com/fjod/go_cart/assistant-service/internal/catalog"
	"github.com/fjod/go_cart/assistant-service/internal/config"
	"github.com/fjod/go_cart/assistant-service/internal/domain"
	"github.com/fjod/go_cart/assistant-service/internal/fallback"
	"github.com/fjod/go_cart/assistant-service/internal/publisher"
	"github.com/fjod/go_cart/assistant-service/internal/store"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// app holds everything a command needs, plus the resources to release on exit
type app struct {
	store      *store.MemoryStore
	fallback   fallback.Delegate
	dispatcher *assistant.Dispatcher
	closers    []func() error
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func buildApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{}

	products, err := loadCatalog(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("catalog loaded", zap.Int("products", len(products)))
	a.store = store.NewMemoryStore(products)

	delegate := fallback.New(ctx, fallback.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		Timeout: cfg.FallbackTimeout,
	}, logger)

	if _, unavailable := delegate.(fallback.Unavailable); !unavailable {
		delegate = fallback.NewBreaker(delegate, fallback.BreakerConfig{
			ConsecutiveFailures: cfg.BreakerFailures,
			OpenTimeout:         cfg.BreakerOpenTimeout,
		}, logger)

		if cfg.RedisAddr != "" {
			redisClient := redis.NewClient(&redis.Options{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       0,
			})
			if err := redisClient.Ping(ctx).Err(); err != nil {
				logger.Warn("redis ping failed, fallback replies will not be cached", zap.Error(err))
				redisClient.Close()
			} else {
				a.closers = append(a.closers, redisClient.Close)
				delegate = fallback.NewCached(delegate, fallback.NewRedisCache(redisClient, cfg.CacheTTL), logger)
				logger.Info("fallback reply cache enabled", zap.String("redis_addr", cfg.RedisAddr))
			}
		}
	}

	var notifier publisher.OrderNotifier = publisher.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := publisher.NewKafkaPublisher(cfg.KafkaTopic, cfg.KafkaBrokers...)
		a.closers = append(a.closers, kafkaPublisher.Close)
		notifier = kafkaPublisher
		logger.Info("order events enabled",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaTopic))
	}

	a.fallback = delegate
	a.dispatcher = assistant.NewDispatcher(a.store, delegate, notifier, logger)
	return a, nil
}

func loadCatalog(ctx context.Context, cfg *config.Config) ([]domain.Product, error) {
	loader, closeLoader, err := newCatalogLoader(cfg)
	if err != nil {
		return nil, err
	}
	defer closeLoader()

	return loader.Load(ctx)
}

// newCatalogLoader picks the sqlite catalog when a database path is configured.
// The sqlite database is migrated and seeded before it is returned.
func newCatalogLoader(cfg *config.Config) (catalog.Loader, func() error, error) {
	if cfg.CatalogDB == "" {
		return catalog.NewJSONLoader(cfg.CatalogPath), func() error { return nil }, nil
	}

	loader, err := catalog.NewSQLiteLoader(cfg.CatalogDB)
	if err != nil {
		return nil, nil, err
	}
	if err := loader.RunMigrations(); err != nil {
		loader.Close()
		return nil, nil, fmt.Errorf("failed to run catalog migrations: %w", err)
	}
	return loader, loader.Close, nil
}
