package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/purchase-discount/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Closer releases a cache's resources
type Closer func() error

// NewRateCache returns a Redis-backed cache when Redis is enabled and
// reachable, and an in-memory cache otherwise.
func NewRateCache(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (RateCache, Closer, error) {
	if !cfg.Enabled {
		logger.Info("Redis disabled, using in-memory rate cache")
		return inMemory()
	}

	client, err := NewRedisClient(ctx, RedisConfig{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory rate cache. "+
			"Rates will not be shared between instances.",
			zap.Error(err),
		)
		return inMemory()
	}

	logger.Info("Using Redis rate cache", zap.String("addr", cfg.Addr()))
	return NewRedisRateCache(client, ""), func() error {
		if err := client.Close(); err != nil {
			return fmt.Errorf("failed to close Redis client: %w", err)
		}
		return nil
	}, nil
}

func inMemory() (RateCache, Closer, error) {
	c := NewInMemoryRateCache(time.Minute)
	return c, func() error {
		c.Close()
		return nil
	}, nil
}
