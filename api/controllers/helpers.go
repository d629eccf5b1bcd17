package controllers

import (
	"net/http"

	pkgerrors "github.com/reelsmith/dashboard-go/pkg/errors"
	"github.com/reelsmith/dashboard-go/pkg/platform"
)

// filtersFromQuery lifts the allowed query parameters into a filter set.
// Unknown parameters are ignored rather than rejected.
func filtersFromQuery(r *http.Request, allowed ...string) platform.Filters {
	query := r.URL.Query()
	filters := platform.Filters{}
	for _, key := range allowed {
		if value := query.Get(key); value != "" {
			filters[key] = value
		}
	}
	if len(filters) == 0 {
		return nil
	}
	return filters
}

// requireConfirmation gates destructive operations behind an explicit
// confirm=true query parameter.
func requireConfirmation(r *http.Request) error {
	if r.URL.Query().Get("confirm") != "true" {
		return pkgerrors.New(pkgerrors.CodeValidation, "confirmation required: pass confirm=true")
	}
	return nil
}
