package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/reelsmith/dashboard-go/api/responses"
	"github.com/reelsmith/dashboard-go/api/validators"
	"github.com/reelsmith/dashboard-go/internal/projects"
	pkgerrors "github.com/reelsmith/dashboard-go/pkg/errors"
	"github.com/reelsmith/dashboard-go/pkg/logger"
	"github.com/reelsmith/dashboard-go/pkg/platform"
)

// maxUploadBytes bounds in-memory multipart parsing; larger parts spill to
// temp files.
const maxUploadBytes = 32 << 20

func ProjectList(svc *projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context(), filtersFromQuery(r, "status", "user_id", "limit", "offset"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func ProjectDetail(svc *projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := svc.Get(r.Context(), chi.URLParam(r, "projectId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, project)
	}
}

// ProjectCreate accepts a multipart submission: scalar fields, the required
// video file, and the optional music file. Validation runs before any bytes
// are forwarded upstream.
func ProjectCreate(svc *projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
			return
		}

		form := projects.CreateForm{
			UserContext:     r.FormValue("user_context"),
			Voice:           r.FormValue("voice"),
			ScriptStyle:     r.FormValue("script_style"),
			AnimationStyle:  r.FormValue("animation_style"),
			CaptionPosition: r.FormValue("caption_position"),
		}
		form.MinWords, _ = strconv.Atoi(r.FormValue("min_words"))
		form.MaxWords, _ = strconv.Atoi(r.FormValue("max_words"))

		if file, header, err := r.FormFile("video_file"); err == nil {
			defer file.Close()
			form.VideoFile = &platform.FilePart{Filename: header.Filename, Content: file}
		}
		if file, header, err := r.FormFile("music_file"); err == nil {
			defer file.Close()
			form.MusicFile = &platform.FilePart{Filename: header.Filename, Content: file}
		}

		project, err := svc.Create(r.Context(), form)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, project)
	}
}

func ProjectUpdate(svc *projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body platform.UpdateProjectInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		project, err := svc.Update(r.Context(), chi.URLParam(r, "projectId"), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, project)
	}
}

// ProjectDelete removes a project after an explicit confirmation.
func ProjectDelete(svc *projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := requireConfirmation(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "projectId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ProjectRetry requeues a failed project after an explicit confirmation.
func ProjectRetry(svc *projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := requireConfirmation(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Retry(r.Context(), chi.URLParam(r, "projectId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

func ProjectsByUser(svc *projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListByUser(r.Context(), chi.URLParam(r, "userId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
