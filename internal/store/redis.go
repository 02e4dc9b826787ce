package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bobrnor/crawlinit/internal/model"
)

const redisPrefix = "visited:"

type redisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// RedisStore keeps visited records as expiring keys. Used for local runs
// where no table is provisioned.
type RedisStore struct {
	client redisClient
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisStore(addr string, ttl time.Duration, logger *zap.Logger) *RedisStore {
	return NewRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: addr}), ttl, logger)
}

func NewRedisStoreWithClient(client redisClient, ttl time.Duration, logger *zap.Logger) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, logger: logger}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func redisKey(url, runID string) string {
	return redisPrefix + runID + ":" + url
}

func (s *RedisStore) MarkVisited(ctx context.Context, v model.VisitedURL) (bool, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return false, fmt.Errorf("marshal visited url: %w", err)
	}

	created, err := s.client.SetNX(ctx, redisKey(v.URL, v.RunID), payload, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("setnx visited url %s: %w", v.URL, err)
	}
	if !created {
		s.logger.Info("url already visited",
			zap.String("url", v.URL),
			zap.String("runId", v.RunID))
	}
	return created, nil
}

func (s *RedisStore) IsVisited(ctx context.Context, url, runID string) (bool, error) {
	n, err := s.client.Exists(ctx, redisKey(url, runID)).Result()
	if err != nil {
		return false, fmt.Errorf("exists visited url %s: %w", url, err)
	}
	return n > 0, nil
}
