package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reelsmith/dashboard-go/api/responses"
	"github.com/reelsmith/dashboard-go/internal/dashboard"
	"github.com/reelsmith/dashboard-go/pkg/enums"
	pkgerrors "github.com/reelsmith/dashboard-go/pkg/errors"
	"github.com/reelsmith/dashboard-go/pkg/logger"
)

func DashboardOverview(svc *dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		overview, err := svc.Overview(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, overview)
	}
}

func DashboardStats(svc *dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

func DashboardChart(svc *dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chartType, err := enums.ParseChartType(chi.URLParam(r, "chartType"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown chart type"))
			return
		}

		chart, err := svc.Chart(r.Context(), chartType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, chart)
	}
}

// Download redirects to the backend's artifact download endpoint rather than
// proxying video bytes through the gateway.
func Download(svc *dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fileType, err := enums.ParseFileType(chi.URLParam(r, "fileType"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown file type"))
			return
		}

		target := svc.DownloadURL(chi.URLParam(r, "projectId"), fileType)
		http.Redirect(w, r, target, http.StatusFound)
	}
}
