package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cache TTLs. Channel metadata is authoritative in Postgres; Redis is only a
// hot layer, so a long TTL is safe. Reports are invalidated on every run.
const (
	ChannelMetaCacheTTL = 24 * time.Hour
	ReportCacheTTL      = 5 * time.Minute
)

const reportKey = "report:latest"

// CacheService provides a Redis cache-aside layer for channel metadata and
// report payloads. A missing or unreachable Redis degrades to no-ops, never
// an error.
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService connects to Redis. If redisURL is empty or the connection
// fails, caching is disabled and every operation becomes a no-op.
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		log.Info().Msg("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn().Err(err).Str("url", redisURL).Msg("redis: invalid URL, caching disabled")
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis: connection failed, caching disabled")
		return &CacheService{}
	}

	log.Info().Msg("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client for health checks. May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetChannelMeta retrieves cached channel metadata bytes. Returns nil when
// not cached or caching is disabled.
func (c *CacheService) GetChannelMeta(ctx context.Context, channelID string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, channelMetaKey(channelID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetChannelMeta stores channel metadata in cache.
func (c *CacheService) SetChannelMeta(ctx context.Context, channelID string, data interface{}) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, channelMetaKey(channelID), b, ChannelMetaCacheTTL).Err()
}

// GetReport retrieves the cached latest-report payload.
func (c *CacheService) GetReport(ctx context.Context) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, reportKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetReport stores the latest-report payload.
func (c *CacheService) SetReport(ctx context.Context, data interface{}) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, reportKey, b, ReportCacheTTL).Err()
}

// InvalidateReport removes the cached report (called after each analysis run).
func (c *CacheService) InvalidateReport(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, reportKey).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func channelMetaKey(channelID string) string {
	return fmt.Sprintf("channelmeta:%s", channelID)
}
