package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/reelsmith/dashboard-go/internal/querycache"
	"github.com/reelsmith/dashboard-go/pkg/config"
	"github.com/reelsmith/dashboard-go/pkg/logger"
	"github.com/reelsmith/dashboard-go/pkg/platform"
)

type backendBehavior struct {
	meStatus  int32 // status /auth/me responds with; 0 means 200
	meCalls   atomic.Int64
	loginTok  string
	loginErrs bool
}

func newBackend(t *testing.T, behavior *backendBehavior) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		if behavior.loginErrs {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect email or password"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": behavior.loginTok,
			"token_type":   "bearer",
		})
	})
	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		var input platform.RegisterInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
		json.NewEncoder(w).Encode(platform.User{Email: input.Email, FullName: input.FullName, IsActive: true})
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		behavior.meCalls.Add(1)
		if status := atomic.LoadInt32(&behavior.meStatus); status != 0 && status != http.StatusOK {
			w.WriteHeader(int(status))
			json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
			return
		}
		json.NewEncoder(w).Encode(platform.User{Email: "user@example.com", IsActive: true})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

type harness struct {
	manager *Manager
	file    *FileStore
	cache   *querycache.Cache
	store   *querycache.MemoryStore
}

func newHarness(t *testing.T, backendURL string, extraStores ...TokenStore) *harness {
	t.Helper()
	memStore := querycache.NewMemoryStore()
	cache := querycache.New(querycache.Options{Store: memStore, Config: config.CacheConfig{
		DefaultStale:  5 * time.Minute,
		AuthStale:     5 * time.Minute,
		RetryAttempts: 3,
	}})
	file := NewFileStore(filepath.Join(t.TempDir(), "token"))

	stores := append([]TokenStore{file}, extraStores...)
	manager := NewManager(ManagerOptions{Cache: cache, Stores: stores})

	logg := logger.New(logger.Options{ServiceName: "test"})
	client, err := platform.NewClient(config.PlatformConfig{BaseURL: backendURL}, manager, logg, nil)
	require.NoError(t, err)
	manager.AttachClient(client)

	return &harness{manager: manager, file: file, cache: cache, store: memStore}
}

func TestHydrateWithoutTokenResolvesUnauthenticated(t *testing.T) {
	behavior := &backendBehavior{}
	h := newHarness(t, newBackend(t, behavior).URL)

	require.True(t, h.manager.IsLoading())
	require.NoError(t, h.manager.Hydrate(context.Background()))

	require.Equal(t, StateUnauthenticated, h.manager.State())
	require.False(t, h.manager.IsLoading())
	require.Zero(t, behavior.meCalls.Load(), "no token means no identity call")
}

func TestHydrateWithValidTokenAuthenticates(t *testing.T) {
	behavior := &backendBehavior{}
	h := newHarness(t, newBackend(t, behavior).URL)
	require.NoError(t, h.file.Save("tok-valid"))

	require.NoError(t, h.manager.Hydrate(context.Background()))

	require.True(t, h.manager.IsAuthenticated())
	require.Equal(t, "tok-valid", h.manager.Token())
	user := h.manager.CurrentUser()
	require.NotNil(t, user)
	require.Equal(t, "user@example.com", user.Email)
}

func TestHydrateFailureLeavesTokenInStorage(t *testing.T) {
	behavior := &backendBehavior{meStatus: http.StatusUnauthorized}
	h := newHarness(t, newBackend(t, behavior).URL)
	require.NoError(t, h.file.Save("tok-stale"))

	require.NoError(t, h.manager.Hydrate(context.Background()))

	require.Equal(t, StateUnauthenticated, h.manager.State())
	require.Nil(t, h.manager.CurrentUser())
	stored, err := h.file.Load()
	require.NoError(t, err)
	require.Equal(t, "tok-stale", stored, "a failed identity fetch must not clear the stored token")
	require.Equal(t, int64(1), behavior.meCalls.Load(), "identity checks are never retried")
}

func TestLoginPersistsTokenToEveryStore(t *testing.T) {
	behavior := &backendBehavior{loginTok: "tok-fresh"}
	rec := httptest.NewRecorder()
	cookies := NewCookieStore(config.SessionConfig{CookieName: "auth_token", CookieMaxAge: 168 * time.Hour}, rec, nil)
	h := newHarness(t, newBackend(t, behavior).URL, cookies)

	user, err := h.manager.Login(context.Background(), Credentials{Email: "user@example.com", Password: "pw"})
	require.NoError(t, err)
	require.Equal(t, "user@example.com", user.Email)
	require.True(t, h.manager.IsAuthenticated())
	require.Equal(t, "tok-fresh", h.manager.Token())

	stored, err := h.file.Load()
	require.NoError(t, err)
	require.Equal(t, "tok-fresh", stored)

	set := rec.Result().Cookies()
	require.Len(t, set, 1)
	require.Equal(t, "tok-fresh", set[0].Value)
}

func TestLoginFailureChangesNothing(t *testing.T) {
	behavior := &backendBehavior{loginErrs: true}
	h := newHarness(t, newBackend(t, behavior).URL)

	_, err := h.manager.Login(context.Background(), Credentials{Email: "user@example.com", Password: "wrong"})
	require.Error(t, err)
	apiErr := platform.AsAPIError(err)
	require.NotNil(t, apiErr)
	require.Equal(t, "Incorrect email or password", apiErr.Message)

	require.Empty(t, h.manager.Token())
	stored, loadErr := h.file.Load()
	require.NoError(t, loadErr)
	require.Empty(t, stored)
}

func TestRegisterDoesNotAuthenticate(t *testing.T) {
	behavior := &backendBehavior{}
	h := newHarness(t, newBackend(t, behavior).URL)
	require.NoError(t, h.manager.Hydrate(context.Background()))

	user, err := h.manager.Register(context.Background(), platform.RegisterInput{
		Email:    "new@example.com",
		FullName: "New User",
		Password: "password123",
	})
	require.NoError(t, err)
	require.Equal(t, "new@example.com", user.Email)

	require.False(t, h.manager.IsAuthenticated())
	require.Empty(t, h.manager.Token())
}

func TestLogoutClearsEverything(t *testing.T) {
	behavior := &backendBehavior{loginTok: "tok-fresh"}
	rec := httptest.NewRecorder()
	cookies := NewCookieStore(config.SessionConfig{CookieName: "auth_token", CookieMaxAge: 168 * time.Hour}, rec, nil)
	h := newHarness(t, newBackend(t, behavior).URL, cookies)

	_, err := h.manager.Login(context.Background(), Credentials{Email: "user@example.com", Password: "pw"})
	require.NoError(t, err)
	require.Positive(t, h.store.Len(), "login caches the identity")

	require.NoError(t, h.manager.Logout(context.Background()))

	require.Equal(t, StateUnauthenticated, h.manager.State())
	require.Empty(t, h.manager.Token())
	require.Nil(t, h.manager.CurrentUser())
	require.Zero(t, h.store.Len(), "logout drops the whole cache")

	stored, err := h.file.Load()
	require.NoError(t, err)
	require.Empty(t, stored)

	set := rec.Result().Cookies()
	require.Negative(t, set[len(set)-1].MaxAge, "logout expires the cookie")
}

func TestLogoutWithoutSessionIsANoOp(t *testing.T) {
	behavior := &backendBehavior{}
	h := newHarness(t, newBackend(t, behavior).URL)
	require.NoError(t, h.manager.Logout(context.Background()))
	require.NoError(t, h.manager.Logout(context.Background()))
	require.Equal(t, StateUnauthenticated, h.manager.State())
}
