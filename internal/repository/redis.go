package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/onehunt/onehuntbot/pkg/logger"
)

// NewRedisClient connects to the Redis instance backing the leaderboard
// cache. The cache is optional: callers may run without it.
func NewRedisClient(host string, port int, password string, log *logger.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       0,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("Successfully connected to Redis!")
	return rdb, nil
}
