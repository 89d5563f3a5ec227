package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	rclient "payment-dispatch/internal/redis"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *rclient.Client
}

func NewRedisStore(connString string) (*RedisStore, error) {
	client, err := rclient.NewClient(connString)
	if err != nil {
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return v, err
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	return s.client.Client.Set(ctx, key, value, 0).Err()
}

func (s *RedisStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	return s.client.Client.ZAdd(ctx, key, redis.Z{
		Score:  score,
		Member: member,
	}).Err()
}

func (s *RedisStore) ZRangeByScore(ctx context.Context, key string, min, max float64) ([]string, error) {
	return s.client.Client.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min: formatScore(min),
		Max: formatScore(max),
	}).Result()
}

// FlushAll clears the selected database only.
func (s *RedisStore) FlushAll(ctx context.Context) error {
	return s.client.Client.FlushDB(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Client.Close()
}

// Mutex returns a distributed lock shared by every process on this Redis.
func (s *RedisStore) Mutex(name string, ttl time.Duration) *rclient.Mutex {
	return s.client.NewMutex(name, ttl)
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
