package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	feedHashKey    = "feed:content_hash"
	lastSummaryKey = "feed:last_summary"
)

// Client caches feed sync state so that an unchanged feed can short-circuit
// a reconciliation run.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetFeedHash returns the content hash of the last reconciled feed, or ""
// when none is cached
func (c *Client) GetFeedHash(ctx context.Context) (string, error) {
	hash, err := c.rdb.Get(ctx, feedHashKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return hash, nil
}

// SetFeedSnapshot stores the content hash and run summary of a completed sync
func (c *Client) SetFeedSnapshot(ctx context.Context, hash string, summary interface{}, ttl time.Duration) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	pipe := c.rdb.Pipeline()
	pipe.Set(ctx, feedHashKey, hash, ttl)
	pipe.Set(ctx, lastSummaryKey, data, ttl)

	_, err = pipe.Exec(ctx)
	return err
}

// GetLastSummary returns the JSON summary of the last completed sync
func (c *Client) GetLastSummary(ctx context.Context) ([]byte, error) {
	data, err := c.rdb.Get(ctx, lastSummaryKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}
