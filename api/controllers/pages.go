package controllers

import (
	"net/http"

	"github.com/reelsmith/dashboard-go/api/responses"
	"github.com/reelsmith/dashboard-go/pkg/config"
	"github.com/reelsmith/dashboard-go/pkg/logger"
)

// Page resolves a guarded navigation. The dashboard UI is served separately;
// this endpoint exists so the guard's redirect rules apply to every page
// path, and it reports which route the navigation resolved to.
func Page(cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"route": r.URL.Path,
		})
	}
}
