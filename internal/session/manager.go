// Package session owns the authentication lifecycle: hydrating a persisted
// token on startup, exchanging credentials for a token, and tearing the
// session down. The token is persisted in two places at once (token file and
// auth cookie) and both are updated through a single path so they can never
// disagree.
package session

import (
	"context"
	"sync"

	"go.uber.org/multierr"

	"github.com/reelsmith/dashboard-go/internal/querycache"
	"github.com/reelsmith/dashboard-go/internal/querykeys"
	"github.com/reelsmith/dashboard-go/pkg/logger"
	"github.com/reelsmith/dashboard-go/pkg/platform"
)

type State int

const (
	// StateUnknown holds from construction until Hydrate resolves; the
	// guard treats it as "still loading" and must not redirect yet.
	StateUnknown State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Manager drives the session state machine. It implements
// platform.TokenSource so the API client always sends the current token.
type Manager struct {
	mu     sync.RWMutex
	state  State
	token  string
	user   *platform.User
	client *platform.Client
	cache  *querycache.Cache
	stores []TokenStore
	logg   *logger.Logger
}

type ManagerOptions struct {
	Cache  *querycache.Cache
	Stores []TokenStore
	Logger *logger.Logger
}

func NewManager(opts ManagerOptions) *Manager {
	return &Manager{
		state:  StateUnknown,
		cache:  opts.Cache,
		stores: opts.Stores,
		logg:   opts.Logger,
	}
}

// AttachClient wires the API client in after construction. The client needs
// the manager as its token source, so the two cannot be built in one step.
func (m *Manager) AttachClient(client *platform.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.client = client
}

// Token returns the active bearer token, or "" when no session exists.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Manager) IsAuthenticated() bool {
	return m.State() == StateAuthenticated
}

// IsLoading reports whether hydration has not resolved yet.
func (m *Manager) IsLoading() bool {
	return m.State() == StateUnknown
}

// CurrentUser returns the hydrated identity, or nil before authentication.
func (m *Manager) CurrentUser() *platform.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// Hydrate restores the session from persisted state. No stored token
// resolves to unauthenticated immediately. A stored token is validated by
// fetching the identity behind it; when that fetch fails the session resolves
// unauthenticated but the token stays in storage, so a transient backend
// outage does not log the user out.
func (m *Manager) Hydrate(ctx context.Context, extra ...TokenStore) error {
	token, err := m.loadToken(extra)
	if err != nil {
		m.setState(StateUnauthenticated, "", nil)
		return err
	}
	if token == "" {
		m.setState(StateUnauthenticated, "", nil)
		return nil
	}

	m.mu.Lock()
	m.token = token
	m.mu.Unlock()

	user, err := m.fetchIdentity(ctx)
	if err != nil {
		if m.logg != nil {
			m.logg.Warn(ctx, "session hydration could not verify stored token")
		}
		m.setState(StateUnauthenticated, token, nil)
		return nil
	}
	m.setState(StateAuthenticated, token, user)
	return nil
}

// Login exchanges credentials for a token, persists it in every store, and
// hydrates the identity behind it.
func (m *Manager) Login(ctx context.Context, creds Credentials, extra ...TokenStore) (*platform.User, error) {
	client := m.apiClient()
	resp, err := client.Login(ctx, platform.Credentials{Email: creds.Email, Password: creds.Password})
	if err != nil {
		return nil, err
	}

	if err := m.persistToken(resp.AccessToken, extra); err != nil {
		return nil, err
	}
	m.cache.Invalidate(ctx, querykeys.Auth())

	user, err := m.fetchIdentity(ctx)
	if err != nil {
		// Token is valid (login just succeeded); surface the fetch failure
		// but keep the session.
		m.setState(StateAuthenticated, resp.AccessToken, nil)
		return nil, err
	}
	m.setState(StateAuthenticated, resp.AccessToken, user)
	if m.logg != nil {
		m.logg.Info(m.logg.WithUserEmail(ctx, user.Email), "session established")
	}
	return user, nil
}

// Register creates an account. It does not authenticate: the caller logs in
// separately once registration succeeds.
func (m *Manager) Register(ctx context.Context, input platform.RegisterInput) (*platform.User, error) {
	return m.apiClient().Register(ctx, input)
}

// Logout tears the session down: every token store is cleared, the entire
// query cache is dropped, and the state resolves unauthenticated. Clearing is
// idempotent; logging out with no active session is a no-op that still
// succeeds.
func (m *Manager) Logout(ctx context.Context, extra ...TokenStore) error {
	var errs error
	for _, store := range append(append([]TokenStore{}, m.stores...), extra...) {
		errs = multierr.Append(errs, store.Clear())
	}
	m.cache.Clear(ctx)
	m.setState(StateUnauthenticated, "", nil)
	if m.logg != nil {
		m.logg.Info(ctx, "session cleared")
	}
	return errs
}

// Credentials is the login input shape.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (m *Manager) apiClient() *platform.Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client
}

func (m *Manager) setState(state State, token string, user *platform.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	m.token = token
	m.user = user
}

// loadToken returns the first token any store holds. Stores are consulted in
// registration order, so the token file wins over the cookie when both exist.
func (m *Manager) loadToken(extra []TokenStore) (string, error) {
	var errs error
	for _, store := range append(append([]TokenStore{}, m.stores...), extra...) {
		token, err := store.Load()
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if token != "" {
			return token, nil
		}
	}
	return "", errs
}

// persistToken writes the token to every store through one path, keeping the
// file and the cookie in lockstep.
func (m *Manager) persistToken(token string, extra []TokenStore) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()

	var errs error
	for _, store := range append(append([]TokenStore{}, m.stores...), extra...) {
		errs = multierr.Append(errs, store.Save(token))
	}
	return errs
}

// fetchIdentity resolves the user behind the current token. Identity checks
// never retry: a rejected token must settle the state machine immediately.
func (m *Manager) fetchIdentity(ctx context.Context) (*platform.User, error) {
	client := m.apiClient()
	return querycache.Fetch(ctx, m.cache, querykeys.AuthMe(), func(ctx context.Context) (*platform.User, error) {
		return client.CurrentUser(ctx)
	}, querycache.WithNoRetry())
}
