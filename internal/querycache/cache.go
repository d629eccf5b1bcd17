// Package querycache is the request/cache/retry engine behind every screen:
// it maps a query key to cached data, dedupes concurrent identical fetches,
// retries transient failures, and invalidates related keys when a mutation
// succeeds.
package querycache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/singleflight"

	"github.com/reelsmith/dashboard-go/internal/querykeys"
	"github.com/reelsmith/dashboard-go/pkg/config"
	pkgerrors "github.com/reelsmith/dashboard-go/pkg/errors"
	"github.com/reelsmith/dashboard-go/pkg/logger"
	"github.com/reelsmith/dashboard-go/pkg/metrics"
)

// retentionFactor sizes the store-level TTL relative to the staleness
// window, so stale entries survive long enough to be served while a
// background refresh runs.
const retentionFactor = 10

// FetchFunc loads fresh data for a query key.
type FetchFunc func(ctx context.Context) (any, error)

// Options bundles the dependencies required to build a cache.
type Options struct {
	Store   Store
	Config  config.CacheConfig
	Logger  *logger.Logger
	Metrics *metrics.QueryCacheMetrics
}

type Cache struct {
	store   Store
	cfg     config.CacheConfig
	logg    *logger.Logger
	metrics *metrics.QueryCacheMetrics
	group   singleflight.Group
	now     func() time.Time
}

func New(opts Options) *Cache {
	store := opts.Store
	if store == nil {
		store = NewMemoryStore()
	}
	return &Cache{
		store:   store,
		cfg:     opts.Config,
		logg:    opts.Logger,
		metrics: opts.Metrics,
		now:     time.Now,
	}
}

type queryOptions struct {
	noRetry       bool
	staleOverride time.Duration
}

type QueryOption func(*queryOptions)

// WithNoRetry disables retry for one query; identity checks use it so a
// rejected token resolves immediately.
func WithNoRetry() QueryOption {
	return func(o *queryOptions) { o.noRetry = true }
}

// WithStaleness overrides the domain staleness window for one query.
func WithStaleness(d time.Duration) QueryOption {
	return func(o *queryOptions) { o.staleOverride = d }
}

// Query returns the cached value for key, fetching when absent. Fresh
// entries are served directly; stale entries are served immediately while a
// background refetch runs. Concurrent identical queries share one in-flight
// fetch.
func (c *Cache) Query(ctx context.Context, key querykeys.Key, fetch FetchFunc, opts ...QueryOption) (json.RawMessage, error) {
	o := queryOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	rendered := key.String()
	staleness := c.stalenessFor(key, o)

	entry, ok, err := c.store.Get(ctx, rendered)
	if err != nil && c.logg != nil {
		c.logg.Error(c.logg.WithQueryKey(ctx, rendered), "cache read failed", err)
	}
	if ok {
		if c.now().Sub(entry.FetchedAt) <= staleness {
			c.metrics.IncHit(key.Domain())
			return entry.Data, nil
		}
		c.metrics.IncRefetch(key.Domain())
		go c.backgroundRefresh(context.WithoutCancel(ctx), key, fetch, o)
		return entry.Data, nil
	}

	c.metrics.IncMiss(key.Domain())
	return c.fetchAndStore(ctx, key, fetch, o)
}

// Fetch is the typed convenience wrapper over Query.
func Fetch[T any](ctx context.Context, c *Cache, key querykeys.Key, fetch func(ctx context.Context) (T, error), opts ...QueryOption) (T, error) {
	var out T
	raw, err := c.Query(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	}, opts...)
	if err != nil {
		return out, err
	}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cached value")
	}
	return out, nil
}

// Mutate runs a state-changing call and, on success, invalidates the given
// key prefixes before returning, so a caller that re-reads afterwards never
// sees pre-mutation cache state. Mutations are never retried.
func (c *Cache) Mutate(ctx context.Context, mutate func(ctx context.Context) error, invalidates ...querykeys.Key) error {
	if err := mutate(ctx); err != nil {
		return err
	}
	for _, key := range invalidates {
		c.Invalidate(ctx, key)
	}
	return nil
}

// Invalidate removes every entry whose key starts with prefix. Entries in
// other domains are untouched.
func (c *Cache) Invalidate(ctx context.Context, prefix querykeys.Key) {
	if err := c.store.DeletePrefix(ctx, prefix.String()); err != nil && c.logg != nil {
		c.logg.Error(c.logg.WithQueryKey(ctx, prefix.String()), "cache invalidation failed", err)
	}
	c.metrics.IncInvalidation(prefix.Domain())
}

// Clear drops every cached entry; logout calls this.
func (c *Cache) Clear(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil && c.logg != nil {
		c.logg.Error(ctx, "cache clear failed", err)
	}
}

func (c *Cache) stalenessFor(key querykeys.Key, o queryOptions) time.Duration {
	if o.staleOverride > 0 {
		return o.staleOverride
	}
	return c.cfg.StaleFor(key.Domain())
}

func (c *Cache) fetchAndStore(ctx context.Context, key querykeys.Key, fetch FetchFunc, o queryOptions) (json.RawMessage, error) {
	rendered := key.String()
	result, err, _ := c.group.Do(rendered, func() (any, error) {
		data, err := c.fetchWithRetry(ctx, fetch, o)
		if err != nil {
			c.metrics.IncError(key.Domain())
			return nil, err
		}
		raw, err := json.Marshal(data)
		if err != nil {
			c.metrics.IncError(key.Domain())
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cached value")
		}
		entry := Entry{Data: raw, FetchedAt: c.now()}
		retention := c.stalenessFor(key, o) * retentionFactor
		if err := c.store.Set(ctx, rendered, entry, retention); err != nil && c.logg != nil {
			c.logg.Error(c.logg.WithQueryKey(ctx, rendered), "cache write failed", err)
		}
		return json.RawMessage(raw), nil
	})
	if err != nil {
		return nil, err
	}
	return result.(json.RawMessage), nil
}

// fetchWithRetry retries transient failures with exponential backoff, never
// retrying when the error's code metadata forbids it (401, 404, other 4xx).
func (c *Cache) fetchWithRetry(ctx context.Context, fetch FetchFunc, o queryOptions) (any, error) {
	attempts := c.cfg.RetryAttempts
	if o.noRetry {
		attempts = 0
	}
	baseBackoff := c.cfg.RetryBaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = 250 * time.Millisecond
	}
	backoff := retry.WithMaxRetries(attempts, retry.NewExponential(baseBackoff))

	var result any
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		data, err := fetch(ctx)
		if err != nil {
			if pkgerrors.Retryable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		result = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Cache) backgroundRefresh(ctx context.Context, key querykeys.Key, fetch FetchFunc, o queryOptions) {
	if _, err := c.fetchAndStore(ctx, key, fetch, o); err != nil && c.logg != nil {
		c.logg.Warn(c.logg.WithQueryKey(ctx, key.String()), "background refresh failed")
	}
}
