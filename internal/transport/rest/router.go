package rest

import (
	"net/http"

	"github.com/frahmantamala/training-management/internal/auth"
	"github.com/frahmantamala/training-management/internal/course"
	"github.com/frahmantamala/training-management/internal/department"
	"github.com/frahmantamala/training-management/internal/media"
	"github.com/frahmantamala/training-management/internal/permission"
	"github.com/frahmantamala/training-management/internal/report"
	"github.com/frahmantamala/training-management/internal/request"
	"github.com/frahmantamala/training-management/internal/role"
	"github.com/frahmantamala/training-management/internal/transport/middleware"
	"github.com/frahmantamala/training-management/internal/transport/swagger"
	"github.com/frahmantamala/training-management/internal/user"
	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth        *auth.Handler
	Roles       *role.Handler
	Permissions *permission.Handler
	Users       *user.Handler
	Departments *department.Handler
	Courses     *course.Handler
	Reports     *report.Handler
	Requests    *request.Handler
	Media       *media.Handler
}

// Gate authorizes protected routes.
type Gate interface {
	Middleware(next http.Handler) http.Handler
}

type Options struct {
	BasePath    string
	OpenAPIPath string
	Health      *HealthHandler
	Gate        Gate
	Metrics     *middleware.Metrics
	Gatherer    prometheus.Gatherer
	// Validator is optional; without it request bodies are only checked by the DTOs.
	Validator *middleware.RequestValidator
}

func RegisterAllRoutes(router chi.Router, h *Handlers, opts Options) {
	if opts.BasePath == "" {
		opts.BasePath = "/api/v1"
	}
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery)
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware)
	}
	router.Use(middleware.LoggingMiddleware)

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, opts.OpenAPIPath)
	})
	router.Handle("/swagger/*", swagger.Handler("/openapi.yml"))
	if opts.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	router.Route(opts.BasePath, func(r chi.Router) {
		if opts.Health != nil {
			r.Get("/health", opts.Health.healthCheckHandler)
			r.Get("/ping", opts.Health.pingHandler)
		}

		r.Group(func(pub chi.Router) {
			if opts.Validator != nil {
				pub.Use(opts.Validator.Middleware)
			}
			pub.Route("/auth", func(ar chi.Router) {
				ar.Post("/login", h.Auth.Login)
				ar.Post("/refresh", h.Auth.RefreshToken)
				ar.Post("/forgot-password", h.Auth.ForgotPassword)
				ar.Post("/reset-password", h.Auth.ResetPassword)
			})
		})

		// The gate needs the matched route template, so it is attached per
		// route inside a group rather than on a mounted sub-router.
		r.Group(func(pr chi.Router) {
			pr.Use(opts.Gate.Middleware)
			pr.Use(middleware.UserContext)
			if opts.Validator != nil {
				pr.Use(opts.Validator.Middleware)
			}

			for _, rt := range protectedRoutes {
				target := pr
				if len(rt.Roles) > 0 {
					target = pr.With(middleware.RequireRoles(rt.Roles...))
				}
				target.MethodFunc(rt.Method, rt.Pattern, rt.handler(h))
			}
		})
	})
}
