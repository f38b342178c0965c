package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dsjohal14/quitoemprende/internal/scope/catalog"
	"github.com/redis/go-redis/v9"
)

// Redis is a SuggestCache shared between server instances
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects to addr and checks the connection
func NewRedis(addr, password string, db int, prefix string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Redis{client: client, prefix: prefix}, nil
}

func (c *Redis) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

func (c *Redis) Get(ctx context.Context, key string) (catalog.SuggestionSet, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return catalog.SuggestionSet{}, ErrCacheMiss
		}
		return catalog.SuggestionSet{}, fmt.Errorf("failed to get from redis: %w", err)
	}

	var set catalog.SuggestionSet
	if err := json.Unmarshal(data, &set); err != nil {
		return catalog.SuggestionSet{}, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return set, nil
}

func (c *Redis) Set(ctx context.Context, key string, set catalog.SuggestionSet, ttl time.Duration) error {
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	if err := c.client.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}
	return nil
}

func (c *Redis) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

func (c *Redis) Close() error {
	return c.client.Close()
}
