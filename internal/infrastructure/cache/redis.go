package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"javelin-lab/internal/config"
	"javelin-lab/internal/domain/models"
	"javelin-lab/pkg/logger"
)

const (
	scanResultTTL  = 15 * time.Minute
	scanResultKey  = "scan:url:"
	statsKeyPrefix = "stats:"
)

// Cache wraps Redis for scan-result caching, aggregate counters, and
// rate limiting
type Cache struct {
	client *redis.Client
	prefix string
	logger *logger.Logger
}

// NewCache creates a Redis-backed cache and verifies connectivity
func NewCache(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*Cache, error) {
	log = log.WithComponent("cache")

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info().Str("addr", cfg.Addr()).Msg("Redis connection established")
	return &Cache{client: client, prefix: cfg.KeyPrefix, logger: log}, nil
}

func (c *Cache) key(suffix string) string {
	return c.prefix + suffix
}

// GetScanResult returns a cached URL scan result, or nil on a miss
func (c *Cache) GetScanResult(ctx context.Context, rawURL string) (*models.ScoreResult, error) {
	data, err := c.client.Get(ctx, c.key(scanResultKey+rawURL)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cached scan: %w", err)
	}

	var result models.ScoreResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode cached scan: %w", err)
	}
	return &result, nil
}

// SetScanResult caches a URL scan result
func (c *Cache) SetScanResult(ctx context.Context, rawURL string, result *models.ScoreResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode scan result: %w", err)
	}
	if err := c.client.Set(ctx, c.key(scanResultKey+rawURL), data, scanResultTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache scan result: %w", err)
	}
	return nil
}

// IncrementStat bumps a named aggregate counter
func (c *Cache) IncrementStat(ctx context.Context, name string) error {
	if err := c.client.Incr(ctx, c.key(statsKeyPrefix+name)).Err(); err != nil {
		return fmt.Errorf("failed to increment stat %s: %w", name, err)
	}
	return nil
}

// GetStat reads a named aggregate counter; missing counters read as zero
func (c *Cache) GetStat(ctx context.Context, name string) (int64, error) {
	val, err := c.client.Get(ctx, c.key(statsKeyPrefix+name)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read stat %s: %w", name, err)
	}
	return val, nil
}

// CheckRateLimit returns true when the key is within limit for the window
func (c *Cache) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	rateKey := c.key("ratelimit:" + key)

	count, err := c.client.Incr(ctx, rateKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if count == 1 {
		if err := c.client.Expire(ctx, rateKey, window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit expiry: %w", err)
		}
	}

	return count <= int64(limit), nil
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}
