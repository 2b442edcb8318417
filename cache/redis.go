package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gridway-ai/plankit/plan"
)

const redisKeyPrefix = "plankit:plan:"

// RedisOptions configures the Redis-backed cache.
type RedisOptions struct {
	// URL is the Redis connection string (e.g. "redis://localhost:6379").
	URL string

	// TTL bounds how long a cached plan stays valid. Zero means no
	// expiry, which is only safe when snapshots embed everything that
	// can change between control steps.
	TTL time.Duration

	// ConnectTimeout is the maximum time to wait for connection
	// establishment.
	ConnectTimeout time.Duration
}

// Redis is a Cache backed by a shared Redis instance, letting parallel
// planning processes reuse each other's episodes.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(opts RedisOptions) (*Redis, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("cache: parsing Redis URL: %w", err)
	}
	redisOpts.DialTimeout = opts.ConnectTimeout

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: connecting to Redis: %w", err)
	}

	return &Redis{client: client, ttl: opts.TTL}, nil
}

// Get implements Cache.
func (r *Redis) Get(ctx context.Context, key string) ([]plan.Action, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	data, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("cache: reading %s: %w", key, err)
	}

	var actions []plan.Action
	if err := json.Unmarshal(data, &actions); err != nil {
		return nil, fmt.Errorf("cache: decoding cached plan %s: %w", key, err)
	}
	return actions, nil
}

// Put implements Cache.
func (r *Redis) Put(ctx context.Context, key string, actions []plan.Action) error {
	if key == "" {
		return ErrInvalidKey
	}

	data, err := json.Marshal(actions)
	if err != nil {
		return fmt.Errorf("cache: encoding plan %s: %w", key, err)
	}

	if err := r.client.Set(ctx, redisKeyPrefix+key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("cache: writing %s: %w", key, err)
	}
	return nil
}

// Close implements Cache.
func (r *Redis) Close() error {
	return r.client.Close()
}
