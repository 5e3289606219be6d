package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/user/crawlweb-api/internal/adapter/memory"
	"github.com/user/crawlweb-api/internal/adapter/postgres"
	redis_adapter "github.com/user/crawlweb-api/internal/adapter/redis"
	"github.com/user/crawlweb-api/internal/delivery/http/handler"
	"github.com/user/crawlweb-api/internal/repository"
	"github.com/user/crawlweb-api/pkg/config"
	"github.com/user/crawlweb-api/pkg/metrics"
	"go.uber.org/zap"
)

// Store is the configured job repository plus the connections behind it.
// Repo is what the use cases should talk to; Base is the same store without
// the Redis cache in front of it.
type Store struct {
	Repo   repository.JobDetailRepository
	Base   repository.JobDetailRepository
	Driver string
	Redis  *redis.Client

	closers []func()
}

// HealthChecks returns one pinger per backing service, keyed by the name
// reported on the health endpoint. The job store is pinged directly so a
// Redis outage is reported against "redis" only.
func (s *Store) HealthChecks() map[string]handler.Pinger {
	checks := map[string]handler.Pinger{s.Driver: s.Base}
	if s.Redis != nil {
		rdb := s.Redis
		checks["redis"] = handler.PingerFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	return checks
}

func (s *Store) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// OpenStore connects the storage backend chosen by cfg and, when configured,
// wraps it with the Redis recent-jobs cache.
func OpenStore(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) (*Store, error) {
	s := &Store{Driver: cfg.StorageDriver}

	switch cfg.StorageDriver {
	case config.DriverMemory:
		s.Repo = memory.NewJobDetailRepo()
		logger.Warn("Using in-memory job store; records are lost on exit")
	default:
		dbpool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("unable to connect to database: %w", err)
		}
		s.closers = append(s.closers, dbpool.Close)

		pgRepo := postgres.NewJobDetailRepo(dbpool)
		if err := pgRepo.Ping(ctx); err != nil {
			s.Close()
			return nil, fmt.Errorf("unable to reach database: %w", err)
		}
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			s.Close()
			return nil, err
		}
		s.Repo = pgRepo
		logger.Info("PostgreSQL connection pool established")
	}

	s.Base = s.Repo

	if cfg.CacheEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		s.closers = append(s.closers, func() { rdb.Close() })
		if err := rdb.Ping(ctx).Err(); err != nil {
			s.Close()
			return nil, fmt.Errorf("unable to connect to redis: %w", err)
		}
		s.Redis = rdb
		s.Repo = redis_adapter.NewCachedJobDetailRepo(s.Repo, rdb, cfg.RecentCacheTTL(), m, logger)
		logger.Info("Redis recent jobs cache enabled", zap.Duration("ttl", cfg.RecentCacheTTL()))
	}

	return s, nil
}
