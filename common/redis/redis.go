package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/LexiconIndonesia/datasource-catalog-service/common/config"
	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the go-redis client used for refresh leases.
type RedisClient struct {
	client *redis.Client
}

// NewClient creates a new Redis client instance and checks the connection.
func NewClient(cfg config.Config) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{
		client: client,
	}, nil
}

// NewFromClient wraps an existing client.
func NewFromClient(client *redis.Client) *RedisClient {
	return &RedisClient{client: client}
}

// Close closes the Redis client connection
func (c *RedisClient) Close() error {
	return c.client.Close()
}

// Ping checks the connection.
func (c *RedisClient) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// SetNX sets a key-value pair only if the key does not exist
func (c *RedisClient) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return c.client.SetNX(ctx, key, value, expiration).Result()
}

// RunScript evaluates a Lua script and returns its integer result.
func (c *RedisClient) RunScript(ctx context.Context, script *redis.Script, keys []string, args ...interface{}) (int, error) {
	return script.Run(ctx, c.client, keys, args...).Int()
}
