package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bigbestmart/bnbmart-backend/config"
	"github.com/bigbestmart/bnbmart-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RedisKV is the production KVStore backed by Redis. Snapshots carry no
// TTL: a cart survives until the client clears it.
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV connects to Redis and verifies the connection with a ping.
func NewRedisKV(cfg *config.RedisConfig) (*RedisKV, error) {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return &RedisKV{client: client}, nil
}

func (s *RedisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *RedisKV) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *RedisKV) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// Close closes the underlying Redis connection.
func (s *RedisKV) Close() error {
	logger.Info("Closing Redis connection", nil)
	return s.client.Close()
}
