package controllers

import (
	"net/http"

	"github.com/reelsmith/dashboard-go/api/responses"
	"github.com/reelsmith/dashboard-go/pkg/config"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"status": "ok",
			"env":    cfg.App.Env,
		})
	}
}
