package middleware

import (
	"net/http"

	"github.com/reelsmith/dashboard-go/internal/session"
	"github.com/reelsmith/dashboard-go/pkg/config"
	"github.com/reelsmith/dashboard-go/pkg/logger"
)

// Guard enforces the navigation rules before any page work happens. It only
// checks that the auth cookie is present; token validity is settled by the
// page's own data requests, which fail with 401 if the token is stale.
func Guard(gate *session.Gate, sessionCfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store := session.NewCookieStore(sessionCfg, w, r)
			token, err := store.Load()
			if err != nil {
				token = ""
			}

			if target, redirect := gate.Check(r.URL.Path, token != ""); redirect {
				if logg != nil {
					ctx := logg.WithFields(r.Context(), map[string]any{
						"path":   r.URL.Path,
						"target": target,
					})
					logg.Debug(ctx, "guard.redirect")
				}
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
