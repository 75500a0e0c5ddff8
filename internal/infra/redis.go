package infra

import (
	"context"
	"fmt"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// NewRedis opens the redis connection backing the job queue and the
// promotion-run locks, failing fast when the server is unreachable.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// NewLocker returns the distributed lock client used to guard promotion runs.
func NewLocker(rdb *redis.Client) *redislock.Client {
	return redislock.New(rdb)
}
