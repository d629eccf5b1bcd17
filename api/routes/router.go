package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reelsmith/dashboard-go/api/controllers"
	"github.com/reelsmith/dashboard-go/api/middleware"
	"github.com/reelsmith/dashboard-go/internal/audit"
	"github.com/reelsmith/dashboard-go/internal/dashboard"
	"github.com/reelsmith/dashboard-go/internal/projects"
	"github.com/reelsmith/dashboard-go/internal/session"
	"github.com/reelsmith/dashboard-go/internal/steps"
	"github.com/reelsmith/dashboard-go/internal/users"
	"github.com/reelsmith/dashboard-go/pkg/config"
	"github.com/reelsmith/dashboard-go/pkg/logger"
)

type Services struct {
	Session   *session.Manager
	Gate      *session.Gate
	Projects  *projects.Service
	Steps     *steps.Service
	Audit     *audit.Service
	Dashboard *dashboard.Service
	Users     *users.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, svcs Services, registry *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
	})
	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(svcs.Session, cfg.Session, logg))
		r.Post("/register", controllers.AuthRegister(svcs.Session, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Session, cfg.Session, logg))
		r.Get("/session", controllers.AuthSession(svcs.Session, cfg.Session, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/video-projects", func(r chi.Router) {
			r.Get("/", controllers.ProjectList(svcs.Projects, logg))
			r.Post("/", controllers.ProjectCreate(svcs.Projects, logg))
			r.Get("/{projectId}", controllers.ProjectDetail(svcs.Projects, logg))
			r.Put("/{projectId}", controllers.ProjectUpdate(svcs.Projects, logg))
			r.Delete("/{projectId}", controllers.ProjectDelete(svcs.Projects, logg))
			r.Post("/{projectId}/retry", controllers.ProjectRetry(svcs.Projects, logg))
			r.Get("/{projectId}/processing-steps", controllers.StepsByProject(svcs.Steps, logg))
			r.Get("/{projectId}/progress", controllers.ProjectProgress(svcs.Steps, logg))
			r.Get("/{projectId}/api-responses", controllers.AuditByProject(svcs.Audit, logg))
			r.Get("/{projectId}/download/{fileType}", controllers.Download(svcs.Dashboard, logg))
		})

		r.Route("/processing-steps", func(r chi.Router) {
			r.Get("/", controllers.StepList(svcs.Steps, logg))
			r.Get("/{stepId}", controllers.StepDetail(svcs.Steps, logg))
			r.Put("/{stepId}", controllers.StepUpdate(svcs.Steps, logg))
		})

		r.Route("/api-responses", func(r chi.Router) {
			r.Get("/", controllers.AuditList(svcs.Audit, logg))
			r.Get("/{recordId}", controllers.AuditDetail(svcs.Audit, logg))
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/overview", controllers.DashboardOverview(svcs.Dashboard, logg))
			r.Get("/stats", controllers.DashboardStats(svcs.Dashboard, logg))
			r.Get("/charts/{chartType}", controllers.DashboardChart(svcs.Dashboard, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.UserList(svcs.Users, logg))
			r.Get("/{userId}", controllers.UserDetail(svcs.Users, logg))
			r.Put("/{userId}", controllers.UserUpdate(svcs.Users, logg))
			r.Delete("/{userId}", controllers.UserDelete(svcs.Users, logg))
			r.Get("/{userId}/video-projects", controllers.ProjectsByUser(svcs.Projects, logg))
		})
	})

	// Page navigations pass through the guard; everything else above is API
	// surface and returns 401s instead of redirects.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Guard(svcs.Gate, cfg.Session, logg))
		r.Get("/*", controllers.Page(cfg, logg))
	})

	return r
}
