// Package cache keeps recently computed location trends in Redis so repeated
// market queries for the same city skip the aggregation round trip.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"property-search/internal/common/logger"
	"property-search/internal/common/metrics"
	"property-search/internal/models"
)

const (
	keyPrefix         = "trends:"
	defaultTimePeriod = "1year"
	scanBatch         = 100
)

// TrendsSource computes trends on a cache miss.
type TrendsSource interface {
	GetLocationTrends(ctx context.Context, location, propertyType, timePeriod string) *models.LocationTrends
}

type TrendsCache struct {
	redis  *redis.Client
	source TrendsSource
	ttl    time.Duration
	logger logger.Logger
}

// NewTrendsCache returns a cache in front of source. A nil client disables
// caching and every call goes straight to source.
func NewTrendsCache(rdb *redis.Client, source TrendsSource, ttl time.Duration, log logger.Logger) *TrendsCache {
	return &TrendsCache{
		redis:  rdb,
		source: source,
		ttl:    ttl,
		logger: log,
	}
}

// Key is the Redis key a trends report is stored under. Location and type
// stay case-exact because the backend matches them as keywords.
func Key(location, propertyType, timePeriod string) string {
	if timePeriod == "" {
		timePeriod = defaultTimePeriod
	}
	return keyPrefix + normalize(location) + ":" + normalize(propertyType) + ":" + timePeriod
}

func normalize(s string) string {
	return strings.TrimSpace(s)
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// escapeGlob quotes the characters SCAN MATCH treats as wildcards.
func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}

// GetLocationTrends serves from Redis when possible. Cache failures are
// logged and fall through to the source.
func (c *TrendsCache) GetLocationTrends(ctx context.Context, location, propertyType, timePeriod string) *models.LocationTrends {
	if c.redis == nil {
		return c.source.GetLocationTrends(ctx, location, propertyType, timePeriod)
	}

	key := Key(location, propertyType, timePeriod)
	val, err := c.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		var trends models.LocationTrends
		if err := json.Unmarshal([]byte(val), &trends); err == nil {
			metrics.TrendsCacheLookups.WithLabelValues("hit").Inc()
			return &trends
		}
		c.logger.Warn("discarding unreadable cached trends", map[string]interface{}{"key": key})
		metrics.TrendsCacheLookups.WithLabelValues("corrupt").Inc()
	case errors.Is(err, redis.Nil):
		metrics.TrendsCacheLookups.WithLabelValues("miss").Inc()
	default:
		c.logger.Warn("trends cache read failed", map[string]interface{}{"key": key, "error": err})
		metrics.TrendsCacheLookups.WithLabelValues("error").Inc()
	}

	trends := c.source.GetLocationTrends(ctx, location, propertyType, timePeriod)
	c.store(ctx, key, trends)
	return trends
}

// store skips empty reports so a degraded backend answer is never pinned for a whole TTL.
func (c *TrendsCache) store(ctx context.Context, key string, trends *models.LocationTrends) {
	if trends == nil || trends.Summary.TotalProperties == 0 {
		return
	}
	data, err := json.Marshal(trends)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("trends cache write failed", map[string]interface{}{"key": key, "error": err})
	}
}

// Invalidate drops every cached report for location, whatever its type and period.
func (c *TrendsCache) Invalidate(ctx context.Context, location string) (int, error) {
	if c.redis == nil {
		return 0, nil
	}

	var keys []string
	iter := c.redis.Scan(ctx, 0, keyPrefix+escapeGlob(normalize(location))+":*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := c.redis.Del(ctx, keys...).Result()
	return int(n), err
}

// Refresh invalidates each distinct location and recomputes its default
// report. It returns the number of locations refreshed.
func (c *TrendsCache) Refresh(ctx context.Context, locations []string) int {
	seen := make(map[string]struct{}, len(locations))
	refreshed := 0
	for _, loc := range locations {
		norm := normalize(loc)
		if norm == "" {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}

		if ctx.Err() != nil {
			break
		}
		if _, err := c.Invalidate(ctx, loc); err != nil {
			c.logger.Warn("trends cache invalidation failed", map[string]interface{}{"location": loc, "error": err})
		}
		c.GetLocationTrends(ctx, loc, "", defaultTimePeriod)
		refreshed++
	}

	c.logger.Info("trends cache refreshed", map[string]interface{}{
		"locations": refreshed,
	})
	return refreshed
}
