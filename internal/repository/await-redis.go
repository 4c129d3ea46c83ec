package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/domain"
)

const redisKeyPrefix = "await:"

// RedisAwaitStore keeps awaits in Redis; expiry is left to key TTLs.
type RedisAwaitStore struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisAwaitStore(client redis.Cmdable, ttl time.Duration, logger *zap.Logger) *RedisAwaitStore {
	return &RedisAwaitStore{client: client, ttl: ttl, logger: logger}
}

func redisKey(key AwaitKey) string {
	return redisKeyPrefix + key.String()
}

func (s *RedisAwaitStore) Get(ctx context.Context, key AwaitKey) (domain.Await, error) {
	raw, err := s.client.Get(ctx, redisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.AwaitNone, nil
	}
	if err != nil {
		return domain.AwaitNone, fmt.Errorf("redis get await: %w", err)
	}

	await := domain.Await(raw)
	if !await.Valid() {
		s.logger.Warn("Dropping unknown await value", zap.String("key", key.String()), zap.String("value", raw))
		return domain.AwaitNone, nil
	}
	return await, nil
}

func (s *RedisAwaitStore) Set(ctx context.Context, key AwaitKey, await domain.Await) error {
	if err := checkAwait(await); err != nil {
		return err
	}
	if await == domain.AwaitNone {
		return s.Clear(ctx, key)
	}
	if err := s.client.Set(ctx, redisKey(key), string(await), s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set await: %w", err)
	}
	return nil
}

func (s *RedisAwaitStore) Clear(ctx context.Context, key AwaitKey) error {
	if err := s.client.Del(ctx, redisKey(key)).Err(); err != nil {
		return fmt.Errorf("redis clear await: %w", err)
	}
	return nil
}
