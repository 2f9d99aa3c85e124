package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/purchase-discount/internal/domain/shared/valueobject"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const defaultKeyPrefix = "pdisc:rate:"

// RedisRateCache implements RateCache using Redis.
// Rates are shared between all instances of the service.
type RedisRateCache struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisRateCache creates a cache over an existing client
func NewRedisRateCache(client *redis.Client, keyPrefix string) *RedisRateCache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisRateCache{client: client, keyPrefix: keyPrefix}
}

// Get implements RateCache
func (c *RedisRateCache) Get(ctx context.Context, currency valueobject.Currency, date time.Time) (decimal.Decimal, bool, error) {
	val, err := c.client.Get(ctx, c.keyPrefix+rateKey(currency, date)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, fmt.Errorf("failed to read cached rate: %w", err)
	}
	rate, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("malformed cached rate %q: %w", val, err)
	}
	return rate, true, nil
}

// Set implements RateCache
func (c *RedisRateCache) Set(ctx context.Context, currency valueobject.Currency, date time.Time, rate decimal.Decimal, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.keyPrefix+rateKey(currency, date), rate.String(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache rate: %w", err)
	}
	return nil
}

// Ping checks the Redis connection; the server exposes it as a health check
func (c *RedisRateCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

var _ RateCache = (*RedisRateCache)(nil)
