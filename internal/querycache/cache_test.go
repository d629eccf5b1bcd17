package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/reelsmith/dashboard-go/internal/querykeys"
	"github.com/reelsmith/dashboard-go/pkg/config"
	pkgerrors "github.com/reelsmith/dashboard-go/pkg/errors"
	"github.com/reelsmith/dashboard-go/pkg/platform"
)

func testConfig() config.CacheConfig {
	return config.CacheConfig{
		DefaultStale:     5 * time.Minute,
		AuthStale:        5 * time.Minute,
		UsersStale:       5 * time.Minute,
		ProjectsStale:    2 * time.Minute,
		StepsStale:       time.Minute,
		AuditStale:       5 * time.Minute,
		DashboardStale:   2 * time.Minute,
		RetryAttempts:    3,
		RetryBaseBackoff: time.Millisecond,
	}
}

func newTestCache() (*Cache, *MemoryStore) {
	store := NewMemoryStore()
	cache := New(Options{Store: store, Config: testConfig()})
	return cache, store
}

type project struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func TestConcurrentIdenticalQueriesShareOneFetch(t *testing.T) {
	cache, _ := newTestCache()
	key := querykeys.VideoProjectList(platform.Filters{"status": "ready"})

	var calls atomic.Int64
	release := make(chan struct{})
	fetch := func(ctx context.Context) ([]project, error) {
		calls.Add(1)
		<-release
		return []project{{ID: "p1", Status: "ready"}}, nil
	}

	const readers = 4
	var wg sync.WaitGroup
	results := make([][]project, readers)
	errs := make([]error, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = Fetch(context.Background(), cache, key, fetch)
		}(i)
	}

	// Give every reader time to join the in-flight fetch before it resolves.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < readers; i++ {
		if errs[i] != nil {
			t.Fatalf("reader %d: %v", i, errs[i])
		}
		if len(results[i]) != 1 || results[i][0].ID != "p1" {
			t.Fatalf("reader %d: unexpected result %v", i, results[i])
		}
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected exactly one fetch, got %d", got)
	}
}

func TestFreshEntryServedWithoutFetch(t *testing.T) {
	cache, _ := newTestCache()
	key := querykeys.VideoProjectDetail("p1")

	var calls atomic.Int64
	fetch := func(ctx context.Context) (project, error) {
		calls.Add(1)
		return project{ID: "p1", Status: "ready"}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := Fetch(context.Background(), cache, key, fetch)
		if err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
		if got.ID != "p1" {
			t.Fatalf("fetch %d: unexpected %v", i, got)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("fresh entries must be served from cache, got %d fetches", calls.Load())
	}
}

func TestStaleEntryServedThenRefetchedInBackground(t *testing.T) {
	cache, _ := newTestCache()
	key := querykeys.ProcessingStepsByProject("p1")

	current := time.Now()
	cache.now = func() time.Time { return current }

	var calls atomic.Int64
	fetch := func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			return "first", nil
		}
		return "second", nil
	}

	if _, err := Fetch(context.Background(), cache, key, fetch); err != nil {
		t.Fatalf("prime: %v", err)
	}

	// Move past the processing-steps staleness window.
	current = current.Add(2 * time.Minute)

	got, err := Fetch(context.Background(), cache, key, fetch)
	if err != nil {
		t.Fatalf("stale read: %v", err)
	}
	if got != "first" {
		t.Fatalf("stale entry should be served immediately, got %q", got)
	}

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("background refetch never ran")
		}
		time.Sleep(5 * time.Millisecond)
	}

	deadline = time.Now().Add(2 * time.Second)
	for {
		got, err = Fetch(context.Background(), cache, key, fetch)
		if err != nil {
			t.Fatalf("post-refresh read: %v", err)
		}
		if got == "second" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("refreshed value never became visible, still %q", got)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestUnauthorizedIsNeverRetried(t *testing.T) {
	cache, _ := newTestCache()
	key := querykeys.AuthMe()

	var calls atomic.Int64
	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token rejected")
	}

	_, err := cache.Query(context.Background(), key, fetch)
	if err == nil {
		t.Fatalf("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("401 must not be retried, saw %d calls", calls.Load())
	}
}

func TestNotFoundIsNeverRetried(t *testing.T) {
	cache, _ := newTestCache()
	var calls atomic.Int64
	_, err := cache.Query(context.Background(), querykeys.VideoProjectDetail("gone"), func(ctx context.Context) (any, error) {
		calls.Add(1)
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no such project")
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("404 must not be retried, saw %d calls", calls.Load())
	}
}

func TestTransientFailureRetriedUpToBound(t *testing.T) {
	cache, _ := newTestCache()
	var calls atomic.Int64
	_, err := cache.Query(context.Background(), querykeys.DashboardStats(), func(ctx context.Context) (any, error) {
		calls.Add(1)
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "backend down")
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	// Initial attempt plus RetryAttempts retries.
	if got := calls.Load(); got != 4 {
		t.Fatalf("expected 4 attempts, got %d", got)
	}
}

func TestTransientFailureRecoversMidRetry(t *testing.T) {
	cache, _ := newTestCache()
	var calls atomic.Int64
	got, err := Fetch(context.Background(), cache, querykeys.DashboardOverview(), func(ctx context.Context) (string, error) {
		if calls.Add(1) < 3 {
			return "", pkgerrors.New(pkgerrors.CodeDependency, "flaky")
		}
		return "recovered", nil
	})
	if err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if got != "recovered" || calls.Load() != 3 {
		t.Fatalf("unexpected result %q after %d calls", got, calls.Load())
	}
}

func TestWithNoRetryDisablesRetry(t *testing.T) {
	cache, _ := newTestCache()
	var calls atomic.Int64
	_, err := cache.Query(context.Background(), querykeys.AuthMe(), func(ctx context.Context) (any, error) {
		calls.Add(1)
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "down")
	}, WithNoRetry())
	if err == nil {
		t.Fatalf("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("no-retry queries must fetch once, saw %d", calls.Load())
	}
}

func TestMutationSuccessInvalidatesDomainPrefix(t *testing.T) {
	cache, _ := newTestCache()
	listKey := querykeys.VideoProjectList(nil)
	detailKey := querykeys.VideoProjectDetail("p1")
	stepsKey := querykeys.ProcessingStepsByProject("p1")

	var listCalls, stepCalls atomic.Int64
	fetchList := func(ctx context.Context) ([]project, error) {
		listCalls.Add(1)
		return []project{{ID: "p1"}}, nil
	}
	fetchSteps := func(ctx context.Context) ([]string, error) {
		stepCalls.Add(1)
		return []string{"video_analysis"}, nil
	}

	if _, err := Fetch(context.Background(), cache, listKey, fetchList); err != nil {
		t.Fatalf("prime list: %v", err)
	}
	if _, err := Fetch(context.Background(), cache, detailKey, func(ctx context.Context) (project, error) {
		return project{ID: "p1"}, nil
	}); err != nil {
		t.Fatalf("prime detail: %v", err)
	}
	if _, err := Fetch(context.Background(), cache, stepsKey, fetchSteps); err != nil {
		t.Fatalf("prime steps: %v", err)
	}

	err := cache.Mutate(context.Background(), func(ctx context.Context) error {
		return nil // delete succeeded upstream
	}, querykeys.VideoProjects())
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}

	if _, err := Fetch(context.Background(), cache, listKey, fetchList); err != nil {
		t.Fatalf("re-read list: %v", err)
	}
	if listCalls.Load() != 2 {
		t.Fatalf("list read after invalidation must refetch, saw %d calls", listCalls.Load())
	}

	if _, err := Fetch(context.Background(), cache, stepsKey, fetchSteps); err != nil {
		t.Fatalf("re-read steps: %v", err)
	}
	if stepCalls.Load() != 1 {
		t.Fatalf("other domains must be unaffected, saw %d calls", stepCalls.Load())
	}
}

func TestMutationFailureSkipsInvalidation(t *testing.T) {
	cache, _ := newTestCache()
	key := querykeys.VideoProjectList(nil)

	var calls atomic.Int64
	fetch := func(ctx context.Context) ([]project, error) {
		calls.Add(1)
		return nil, nil
	}
	if _, err := Fetch(context.Background(), cache, key, fetch); err != nil {
		t.Fatalf("prime: %v", err)
	}

	wantErr := errors.New("delete rejected")
	err := cache.Mutate(context.Background(), func(ctx context.Context) error {
		return wantErr
	}, querykeys.VideoProjects())
	if !errors.Is(err, wantErr) {
		t.Fatalf("mutation error must propagate, got %v", err)
	}

	if _, err := Fetch(context.Background(), cache, key, fetch); err != nil {
		t.Fatalf("re-read: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("failed mutation must not invalidate, saw %d calls", calls.Load())
	}
}

func TestMutationsAreNeverRetried(t *testing.T) {
	cache, _ := newTestCache()
	var calls atomic.Int64
	err := cache.Mutate(context.Background(), func(ctx context.Context) error {
		calls.Add(1)
		return pkgerrors.New(pkgerrors.CodeDependency, "transient")
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("mutations must run exactly once, saw %d", calls.Load())
	}
}

func TestStartRefreshPollsUntilStopped(t *testing.T) {
	store := NewMemoryStore()
	cfg := testConfig()
	cfg.RefreshInterval = 10 * time.Millisecond
	cache := New(Options{Store: store, Config: cfg})

	var calls atomic.Int64
	stop := cache.StartRefresh(context.Background(), querykeys.DashboardStats(), func(ctx context.Context) (any, error) {
		calls.Add(1)
		return map[string]int{"projects_today": 1}, nil
	}, 0)

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("refresh loop never ticked, saw %d calls", calls.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
	stop()

	settled := calls.Load()
	time.Sleep(50 * time.Millisecond)
	if calls.Load() > settled+1 {
		t.Fatalf("refresh loop kept running after stop")
	}

	if _, ok, err := store.Get(context.Background(), querykeys.DashboardStats().String()); err != nil || !ok {
		t.Fatalf("refreshed entry missing from store (ok=%v err=%v)", ok, err)
	}
}

func TestClearDropsEverything(t *testing.T) {
	cache, store := newTestCache()
	keys := []querykeys.Key{
		querykeys.VideoProjectList(nil),
		querykeys.DashboardOverview(),
		querykeys.AuthMe(),
	}
	for _, key := range keys {
		if _, err := Fetch(context.Background(), cache, key, func(ctx context.Context) (string, error) {
			return "cached", nil
		}); err != nil {
			t.Fatalf("prime %v: %v", key, err)
		}
	}
	if store.Len() != len(keys) {
		t.Fatalf("expected %d entries, got %d", len(keys), store.Len())
	}

	cache.Clear(context.Background())
	if store.Len() != 0 {
		t.Fatalf("clear must drop every entry, %d left", store.Len())
	}
}
