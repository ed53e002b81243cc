package database

import (
	"context"
	"fmt"

	"property-search/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// OpenRedis connects to the analytics cache and session store. The client is
// closed again when the first ping fails.
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(redisOptions(cfg))
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Address, err)
	}
	return rdb, nil
}

func redisOptions(cfg config.RedisConfig) *redis.Options {
	opts := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = config.GetDuration(cfg.DialTimeout)
		// reads are single keys or short ranges
		opts.ReadTimeout = opts.DialTimeout / 2
		opts.WriteTimeout = opts.DialTimeout / 2
	}
	if opts.PoolSize > 0 {
		opts.MinIdleConns = opts.PoolSize / 2
	}
	return opts
}

// RedisPoolFields summarizes pool usage for shutdown logging.
func RedisPoolFields(rdb *redis.Client) map[string]interface{} {
	stats := rdb.PoolStats()
	return map[string]interface{}{
		"hits":       stats.Hits,
		"misses":     stats.Misses,
		"timeouts":   stats.Timeouts,
		"totalConns": stats.TotalConns,
		"idleConns":  stats.IdleConns,
	}
}
