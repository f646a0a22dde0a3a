package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-redis/redis/v8"
)

const (
	CounterImagesReceived  = "camgallery:images:received"
	CounterWeatherReceived = "camgallery:weather:received"
	CounterCaptures        = "camgallery:camera:captures"
)

// CacheRepository holds ingestion counters in Redis.
type CacheRepository interface {
	Increment(ctx context.Context, key string) (int64, error)
	Counter(ctx context.Context, key string) (int64, error)
	Counters(ctx context.Context, keys ...string) (map[string]int64, error)
}

type cacheRepository struct {
	client *redis.Client
}

func NewCacheRepository(client *redis.Client) CacheRepository {
	return &cacheRepository{client: client}
}

func (r *cacheRepository) Increment(ctx context.Context, key string) (int64, error) {
	return r.client.Incr(ctx, key).Result()
}

func (r *cacheRepository) Counter(ctx context.Context, key string) (int64, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil // never incremented
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

func (r *cacheRepository) Counters(ctx context.Context, keys ...string) (map[string]int64, error) {
	counters := make(map[string]int64, len(keys))
	if len(keys) == 0 {
		return counters, nil
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for i, key := range keys {
		s, ok := values[i].(string)
		if !ok {
			counters[key] = 0
			continue
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, err
		}
		counters[key] = n
	}
	return counters, nil
}
