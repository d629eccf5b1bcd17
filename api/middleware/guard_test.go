package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reelsmith/dashboard-go/internal/session"
	"github.com/reelsmith/dashboard-go/pkg/config"
)

func guardHandler() http.Handler {
	gate := session.NewGate(config.GuardConfig{
		ProtectedPrefixes: []string{"/overview", "/details", "/settings"},
		LoginPath:         "/login",
		HomePath:          "/overview",
	})
	sessionCfg := config.SessionConfig{CookieName: "auth_token"}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return Guard(gate, sessionCfg, nil)(next)
}

func TestGuardRedirectsAnonymousProtectedNavigation(t *testing.T) {
	handler := guardHandler()

	for _, path := range []string{"/overview", "/details/p1", "/settings"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusSeeOther, rec.Code, "path %s", path)
		require.Equal(t, "/login", rec.Header().Get("Location"))
	}
}

func TestGuardPassesAuthenticatedProtectedNavigation(t *testing.T) {
	handler := guardHandler()

	req := httptest.NewRequest(http.MethodGet, "/overview", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "tok"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGuardRedirectsAuthenticatedLoginVisit(t *testing.T) {
	handler := guardHandler()

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "tok"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/overview", rec.Header().Get("Location"))
}

func TestGuardPassesAnonymousPublicNavigation(t *testing.T) {
	handler := guardHandler()

	for _, path := range []string{"/login", "/register", "/overviewer"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, "path %s", path)
	}
}
