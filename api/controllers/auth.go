package controllers

import (
	"net/http"

	"github.com/reelsmith/dashboard-go/api/responses"
	"github.com/reelsmith/dashboard-go/api/validators"
	"github.com/reelsmith/dashboard-go/internal/session"
	"github.com/reelsmith/dashboard-go/pkg/config"
	"github.com/reelsmith/dashboard-go/pkg/logger"
	"github.com/reelsmith/dashboard-go/pkg/platform"
)

// AuthLogin exchanges credentials for a session. The token lands in the
// token file and in the response's auth cookie in the same call.
func AuthLogin(manager *session.Manager, sessionCfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body session.Credentials
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cookie := session.NewCookieStore(sessionCfg, w, r)
		user, err := manager.Login(r.Context(), body, cookie)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

// AuthRegister creates an account. Registration does not log the user in;
// the client follows up with a login call.
func AuthRegister(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body platform.RegisterInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := manager.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, user)
	}
}

// AuthLogout clears the token file, expires the auth cookie, and drops the
// whole query cache.
func AuthLogout(manager *session.Manager, sessionCfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie := session.NewCookieStore(sessionCfg, w, r)
		if err := manager.Logout(r.Context(), cookie); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

type sessionResponse struct {
	State         string         `json:"state"`
	Authenticated bool           `json:"authenticated"`
	User          *platform.User `json:"user,omitempty"`
}

// AuthSession hydrates the session from persisted state and reports where
// the state machine landed.
func AuthSession(manager *session.Manager, sessionCfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie := session.NewCookieStore(sessionCfg, w, r)
		if err := manager.Hydrate(r.Context(), cookie); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sessionResponse{
			State:         manager.State().String(),
			Authenticated: manager.IsAuthenticated(),
			User:          manager.CurrentUser(),
		})
	}
}
