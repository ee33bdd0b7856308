package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/course-platform/backend/app"
	"github.com/upb/course-platform/backend/middleware"
	"github.com/upb/course-platform/backend/models"
	"github.com/upb/course-platform/backend/services/ratelimit"
	"github.com/upb/course-platform/backend/utils"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(deps.Config.Server.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	auth := deps.AuthMiddleware
	limit := rateLimiter(deps)

	// Health check endpoints
	r.Get("/healthz", deps.HealthHandler.HandleHealth)
	r.Get("/readyz", deps.HealthHandler.HandleReadiness)

	r.Route("/auth", func(r chi.Router) {
		r.With(limit("register", deps.Config.RateLimit.RegisterPerMinute)).
			Post("/register", deps.AuthHandler.HandleRegister)
		r.With(limit("login", deps.Config.RateLimit.LoginPerMinute)).
			Post("/login", deps.AuthHandler.HandleLogin)
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Get("/me", deps.UserHandler.HandleMe)
	})

	r.Route("/courses", func(r chi.Router) {
		r.Get("/", deps.CourseHandler.HandleList)
		r.Get("/{id}", deps.CourseHandler.HandleGet)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Use(auth.RequireRole(models.RoleAdmin))
			r.Post("/", deps.CourseHandler.HandleCreate)
			r.Put("/{id}", deps.CourseHandler.HandleUpdate)
			r.Patch("/{id}/activate", deps.CourseHandler.HandleSetActive)
			r.Delete("/{id}", deps.CourseHandler.HandleDelete)
		})
	})

	r.Route("/enrollments", func(r chi.Router) {
		r.Use(auth.RequireAuth)

		r.With(auth.RequireRole(models.RoleStudent)).Post("/", deps.EnrollmentHandler.HandleEnroll)
		r.Delete("/{id}", deps.EnrollmentHandler.HandleRemove)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleAdmin))
			r.Get("/", deps.EnrollmentHandler.HandleListAll)
			r.Get("/course/{id}", deps.EnrollmentHandler.HandleListByCourse)
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Audit logs (require admin role)
		r.Route("/audit", func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Use(auth.RequireRole(models.RoleAdmin))
			r.Get("/logs", deps.AuditHandler.HandleList)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteMethodNotAllowed(w)
	})

	return r
}

// rateLimiter returns a per-minute limit constructor, or a pass-through when
// rate limiting is disabled
func rateLimiter(deps *app.Dependencies) func(name string, perMinute int) func(http.Handler) http.Handler {
	return func(name string, perMinute int) func(http.Handler) http.Handler {
		if !deps.Config.RateLimit.Enabled {
			return func(next http.Handler) http.Handler { return next }
		}
		return deps.RateLimitMiddleware.Limit(ratelimit.Rule{
			Name:     name,
			Requests: perMinute,
			Window:   ratelimit.WindowMinute,
		})
	}
}
