package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reelsmith/dashboard-go/api/responses"
	"github.com/reelsmith/dashboard-go/api/validators"
	"github.com/reelsmith/dashboard-go/internal/steps"
	"github.com/reelsmith/dashboard-go/pkg/logger"
	"github.com/reelsmith/dashboard-go/pkg/platform"
)

func StepList(svc *steps.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context(), filtersFromQuery(r, "status", "step_name", "video_project_id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func StepDetail(svc *steps.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		step, err := svc.Get(r.Context(), chi.URLParam(r, "stepId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, step)
	}
}

func StepsByProject(svc *steps.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListByProject(r.Context(), chi.URLParam(r, "projectId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func StepUpdate(svc *steps.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body platform.UpdateStepInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		step, err := svc.Update(r.Context(), chi.URLParam(r, "stepId"), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, step)
	}
}

// ProjectProgress reports a project's pipeline position as a percentage plus
// the step currently in flight.
func ProjectProgress(svc *steps.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		progress, err := svc.Progress(r.Context(), chi.URLParam(r, "projectId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, progress)
	}
}
