package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/payroll-bridge/internal/budget"
	"github.com/frahmantamala/payroll-bridge/internal/company"
	"github.com/frahmantamala/payroll-bridge/internal/employee"
	"github.com/frahmantamala/payroll-bridge/internal/movement"
	"github.com/frahmantamala/payroll-bridge/internal/submission"
	"github.com/frahmantamala/payroll-bridge/internal/transport/middleware"
	"github.com/frahmantamala/payroll-bridge/internal/transport/swagger"
)

// Handlers groups the route handlers. Nil handlers leave their routes unregistered.
type Handlers struct {
	Health     *HealthHandler
	Company    *company.Handler
	Employee   *employee.Handler
	Budget     *budget.Handler
	Movement   *movement.Handler
	Submission *submission.Handler
}

type RouterOptions struct {
	AllowedOrigins []string
	OpenAPIPath    string
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts RouterOptions, logger *slog.Logger) {
	if opts.OpenAPIPath == "" {
		opts.OpenAPIPath = "./api/openapi.yml"
	}

	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, opts.OpenAPIPath)
	})
	specURL := "/openapi.yml"
	if doc, err := swagger.LoadDocument(context.Background(), opts.OpenAPIPath); err != nil {
		logger.Warn("openapi document not loaded, swagger ui falls back to the raw file", "path", opts.OpenAPIPath, "error", err)
	} else {
		router.Handle("/openapi.json", swagger.SpecHandler(doc))
		specURL = "/openapi.json"
	}
	router.Handle("/swagger/*", swagger.Handler(specURL))

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.healthCheckHandler)
			r.Get("/ping", h.Health.pingHandler)
		}

		if h.Company != nil {
			r.Get("/companies", h.Company.GetCompanies)
			r.Get("/company-aliases", h.Company.GetAliases)
		}

		r.Route("/companies/{companyId}", func(cr chi.Router) {
			if h.Employee != nil {
				cr.Get("/employees", h.Employee.GetEmployees)
			}
			if h.Budget != nil {
				cr.Get("/budgets", h.Budget.GetBudgets)
			}
		})

		if h.Movement != nil {
			r.Post("/movements", h.Movement.SubmitMovements)

			r.Route("/cache/events", func(cr chi.Router) {
				cr.Get("/", h.Movement.GetCacheEntries)
				cr.Delete("/", h.Movement.ClearCache)
				cr.Delete("/{code}", h.Movement.InvalidateCacheEntry)
			})
		}

		if h.Submission != nil {
			r.Get("/movements/submissions", h.Submission.GetSubmissions)
		}
	})
}
