package server

import (
	"log/slog"
	"net/http"
	"time"

	"leavedesk-backend/internal/config"
	"leavedesk-backend/internal/domain"
	"leavedesk-backend/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Health    handler.HealthHandler
	Docs      handler.DocsHandler
	Auth      handler.AuthHandler
	Dashboard handler.DashboardHandler
	Leave     handler.LeaveHandler
	Admin     handler.AdminHandler
	Metrics   http.Handler
}

// NewRouter wires HTTP routes and middleware.
func NewRouter(cfg config.Config, logger *slog.Logger, h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if cfg.RateLimitPerMinute > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))
	}

	metrics := h.Metrics
	if metrics == nil {
		metrics = promhttp.Handler()
	}

	h.Health.RegisterRoutes(r)
	h.Docs.RegisterRoutes(r)
	h.Auth.RegisterRoutes(r)
	r.Method(http.MethodGet, "/metrics", metrics)

	r.Group(func(pr chi.Router) {
		pr.Use(AuthMiddleware(cfg.JWTSecret))
		// every role
		pr.Group(func(ar chi.Router) {
			ar.Use(RequireRole(domain.RoleAdmin, domain.RoleManager, domain.RoleEmployee))
			h.Auth.RegisterProtectedRoutes(ar)
			h.Dashboard.RegisterRoutes(ar)
			h.Leave.RegisterRoutes(ar)
		})
		// reviewers (manager/admin)
		pr.Group(func(mr chi.Router) {
			mr.Use(RequireRole(domain.RoleAdmin, domain.RoleManager))
			h.Leave.RegisterReviewRoutes(mr)
		})
		// admin only
		pr.Group(func(adr chi.Router) {
			adr.Use(RequireRole(domain.RoleAdmin))
			h.Admin.RegisterRoutes(adr)
		})
	})

	return r
}
