package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/jejomarc/askjejo/internal/config"
	"github.com/redis/go-redis/v9"
)

const connectTimeout = 5 * time.Second

// Client wraps the go-redis connection used by the rate limiter
type Client struct {
	rdb *redis.Client
}

// NewClient connects to Redis and verifies the connection before handing
// it out
func NewClient(cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Client returns the underlying Redis client
func (c *Client) Client() *redis.Client {
	return c.rdb
}
