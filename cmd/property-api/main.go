// cmd/property-api/main.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"property-search/internal/cache"
	"property-search/internal/common/config"
	"property-search/internal/common/database"
	"property-search/internal/common/logger"
	"property-search/internal/common/observability"
	"property-search/internal/search"
	"property-search/internal/session"
	"property-search/internal/snapshots"
	"property-search/internal/transport/rest"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting property API...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New("property-api")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Elasticsearch (required) ---
	var es *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return es.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	if info, err := es.Info(ctx); err == nil {
		zapLog.Info("Elasticsearch connected successfully",
			zap.String("cluster", info.ClusterName),
			zap.String("version", info.Version.Number),
		)
	}

	searchCfg := search.ConfigFrom(cfg)
	engine := search.NewEngine(searchCfg, es.Client, log, obs)
	if err := engine.EnsureIndex(ctx); err != nil {
		zapLog.Fatal("index bootstrap failed", zap.Error(err), zap.String("index", searchCfg.IndexName))
	}

	deps := rest.Dependencies{
		Properties:     engine,
		Trends:         engine,
		Logger:         log,
		RefreshTimeout: config.GetDuration(cfg.Search.RefreshTimeout),
	}

	// --- Redis (optional): trends cache, favorites and chat history ---
	if cfg.Database.Redis.Enabled {
		var rdb *redis.Client
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.OpenRedis(ctx, cfg.Database.Redis)
			return err
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer func() {
			log.Info("redis pool at shutdown", database.RedisPoolFields(rdb))
			rdb.Close()
		}()
		zapLog.Info("Redis connected successfully")

		trendsCache := cache.NewTrendsCache(rdb, engine, config.GetDuration(cfg.Search.TrendsCacheTTL), log)
		deps.Trends = trendsCache
		deps.Refresher = trendsCache
		deps.Sessions = session.NewStore(rdb, cfg.Search.HistoryCap, log)
	}

	// --- PostgreSQL (optional): market snapshots ---
	if cfg.Database.Postgres.Enabled {
		var pg *sql.DB
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.OpenPostgres(ctx, cfg.Database.Postgres)
			return err
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()

		repo := snapshots.NewRepository(pg, log)
		if err := repo.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("snapshot schema failed", zap.Error(err))
		}
		deps.Snapshots = repo
		zapLog.Info("PostgreSQL connected successfully")
	}

	server := rest.NewServer(cfg.Server, rest.NewHandler(deps), log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zapLog.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			zapLog.Error("HTTP server stopped", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("Property API stopped")
}
