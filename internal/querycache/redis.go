package querycache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/reelsmith/dashboard-go/pkg/config"
)

// RedisStore shares cache entries between gateway replicas. Singleflight
// dedupe stays process-local; redis only carries the data.
type RedisStore struct {
	client    *redis.Client
	namespace string
}

// NewRedisStore connects to redis and verifies connectivity.
func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	if !cfg.Enabled() {
		return nil, errors.New("redis url is required")
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "reelsmith"
	}
	return &RedisStore{client: client, namespace: namespace}, nil
}

func (r *RedisStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	raw, err := r.client.Get(ctx, r.buildKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return Entry{}, false, fmt.Errorf("decode cache entry: %w", err)
	}
	return entry, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, entry Entry, ttl time.Duration) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	return r.client.Set(ctx, r.buildKey(key), raw, ttl).Err()
}

func (r *RedisStore) DeletePrefix(ctx context.Context, prefix string) error {
	// Exact key plus everything under the segment boundary.
	if err := r.client.Del(ctx, r.buildKey(prefix)).Err(); err != nil {
		return err
	}
	return r.deletePattern(ctx, r.buildKey(prefix)+"/*")
}

func (r *RedisStore) Clear(ctx context.Context) error {
	return r.deletePattern(ctx, r.namespace+":*")
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) deletePattern(ctx context.Context, pattern string) error {
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (r *RedisStore) buildKey(key string) string {
	return r.namespace + ":" + key
}
