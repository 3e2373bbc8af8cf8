// Package cache provides a Redis read cache for cash balances. The database
// stays authoritative; the cache only absorbs repeated balance reads and is
// invalidated on every cash mutation.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Config holds Redis configuration
type Config struct {
	Enabled  bool
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

// BalanceCache caches cash balances keyed by user id.
type BalanceCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewBalanceCache connects to Redis. Returns nil (cache disabled) when the
// config is disabled; callers treat a nil cache as a miss on every read.
func NewBalanceCache(cfg Config, logger zerolog.Logger) (*BalanceCache, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &BalanceCache{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "balance-cache").Logger(),
	}, nil
}

// Close releases the Redis connection.
func (c *BalanceCache) Close() error {
	return c.client.Close()
}

func balanceKey(userID string) string {
	return "cash_balance:" + userID
}

// GetCashBalance returns the cached balance for a user, if present. Cache
// errors degrade to a miss.
func (c *BalanceCache) GetCashBalance(ctx context.Context, userID string) (decimal.Decimal, bool) {
	value, err := c.client.Get(ctx, balanceKey(userID)).Result()
	if err == redis.Nil {
		return decimal.Zero, false
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("user_id", userID).Msg("cache read failed")
		return decimal.Zero, false
	}
	balance, err := decimal.NewFromString(value)
	if err != nil {
		c.logger.Warn().Str("user_id", userID).Str("value", value).Msg("corrupt cache entry, dropping")
		c.client.Del(ctx, balanceKey(userID))
		return decimal.Zero, false
	}
	return balance, true
}

// SetCashBalance stores a balance with the configured TTL.
func (c *BalanceCache) SetCashBalance(ctx context.Context, userID string, balance decimal.Decimal) {
	if err := c.client.Set(ctx, balanceKey(userID), balance.String(), c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("user_id", userID).Msg("cache write failed")
	}
}

// InvalidateCashBalance drops a user's cached balance after a mutation.
func (c *BalanceCache) InvalidateCashBalance(ctx context.Context, userID string) {
	if err := c.client.Del(ctx, balanceKey(userID)).Err(); err != nil {
		c.logger.Warn().Err(err).Str("user_id", userID).Msg("cache invalidation failed")
	}
}
