package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meinhoongagan/ignite-call/logger"
)

// Client is nil when no REDIS_ADDR is configured, every helper then becomes a no-op.
var (
	Client *redis.Client
	TTL    = 5 * time.Minute
)

func InitRedis(ctx context.Context, addr, password string, db int, ttl time.Duration) error {
	if addr == "" {
		logger.Log.Info().Msg("redis disabled, REDIS_ADDR is empty")
		return nil
	}

	c := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping %s: %w", addr, err)
	}
	Client = c
	if ttl > 0 {
		TTL = ttl
	}
	logger.Log.Info().Str("addr", addr).Msg("connected to redis")
	return nil
}

func Enabled() bool {
	return Client != nil
}

func Ping(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	return Client.Ping(ctx).Err()
}

func Close() error {
	if Client == nil {
		return nil
	}
	return Client.Close()
}

// BlockedDatesKey is the cache key of a user's blocked dates for one month.
func BlockedDatesKey(userID string, year int, month time.Month) string {
	return fmt.Sprintf("blocked-dates:%s:%04d-%02d", userID, year, int(month))
}

// GetJSON decodes the cached value of key into dst. It reports false on a
// miss, when caching is disabled, or when the cached value is unreadable.
func GetJSON(ctx context.Context, key string, dst interface{}) bool {
	if Client == nil {
		return false
	}
	raw, err := Client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		logger.Log.Warn().Err(err).Str("key", key).Msg("cache value is not valid json")
		return false
	}
	return true
}

func SetJSON(ctx context.Context, key string, value interface{}) {
	if Client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		logger.Log.Warn().Err(err).Str("key", key).Msg("cache value not serialisable")
		return
	}
	if err := Client.Set(ctx, key, raw, TTL).Err(); err != nil {
		logger.Log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func Delete(ctx context.Context, keys ...string) {
	if Client == nil || len(keys) == 0 {
		return
	}
	if err := Client.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}

// DeleteUserBlockedDates drops every cached month of a user.
func DeleteUserBlockedDates(ctx context.Context, userID string) {
	if Client == nil {
		return
	}
	pattern := fmt.Sprintf("blocked-dates:%s:*", userID)
	var keys []string
	iter := Client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Log.Warn().Err(err).Str("pattern", pattern).Msg("cache scan failed")
		return
	}
	Delete(ctx, keys...)
}
