package querycache

import (
	"context"
	"time"

	"github.com/reelsmith/dashboard-go/internal/querykeys"
)

// StartRefresh polls a query on a fixed interval until ctx is done, keeping
// fast-moving domains (processing steps, dashboard) warm without per-screen
// refresh buttons. The returned function stops the loop.
func (c *Cache) StartRefresh(ctx context.Context, key querykeys.Key, fetch FetchFunc, interval time.Duration, opts ...QueryOption) func() {
	if interval <= 0 {
		interval = c.cfg.RefreshInterval
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}

	refreshCtx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-refreshCtx.Done():
				return
			case <-ticker.C:
				o := queryOptions{}
				for _, opt := range opts {
					opt(&o)
				}
				if _, err := c.fetchAndStore(refreshCtx, key, fetch, o); err != nil && c.logg != nil {
					c.logg.Warn(c.logg.WithQueryKey(refreshCtx, key.String()), "scheduled refresh failed")
				}
			}
		}
	}()
	return cancel
}
