// File: internal/account/cache.go
package account

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"wallet_backend/internal/gatehub"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BalanceCache is a short-lived cache for wallet balance snapshots so bursts
// of account reads do not each hit the provider.
type BalanceCache interface {
	Get(ctx context.Context, walletID string) ([]gatehub.Balance, bool)
	Set(ctx context.Context, walletID string, balances []gatehub.Balance)
}

type redisBalanceCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisBalanceCache creates a Redis-backed balance cache. Cache failures
// are logged and treated as misses so Redis outages never break balance reads.
func NewRedisBalanceCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) BalanceCache {
	return &redisBalanceCache{client: client, ttl: ttl, logger: logger.Named("balance_cache")}
}

func balanceCacheKey(walletID string) string {
	return "balance:" + walletID
}

func (c *redisBalanceCache) Get(ctx context.Context, walletID string) ([]gatehub.Balance, bool) {
	raw, err := c.client.Get(ctx, balanceCacheKey(walletID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Balance cache read failed", zap.String("walletID", walletID), zap.Error(err))
		}
		return nil, false
	}

	var balances []gatehub.Balance
	if err := json.Unmarshal([]byte(raw), &balances); err != nil {
		c.logger.Warn("Discarding malformed balance cache entry", zap.String("walletID", walletID), zap.Error(err))
		return nil, false
	}
	return balances, true
}

func (c *redisBalanceCache) Set(ctx context.Context, walletID string, balances []gatehub.Balance) {
	raw, err := json.Marshal(balances)
	if err != nil {
		c.logger.Warn("Failed to encode balances for cache", zap.String("walletID", walletID), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, balanceCacheKey(walletID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("Balance cache write failed", zap.String("walletID", walletID), zap.Error(err))
	}
}
