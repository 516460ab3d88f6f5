// Package server assembles the HTTP router: the global chi middleware stack,
// CORS, optional rate limiting, the public routes, and the /api routes guarded
// by JWTMiddleware.
package server

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/auth"
	"github.com/user/taskmanager-go/categories"
	"github.com/user/taskmanager-go/config"
	"github.com/user/taskmanager-go/docs"
	"github.com/user/taskmanager-go/limiter"
	"github.com/user/taskmanager-go/respond"
	"github.com/user/taskmanager-go/tasks"
	"github.com/user/taskmanager-go/users"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "task-management-api"

// Deps are the stores and settings the router is built from.
type Deps struct {
	Config     *config.AppConfig
	Users      users.Store
	Categories categories.Store
	Tasks      tasks.Store
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status" example:"healthy"`
	Service string `json:"service" example:"task-management-api"`
}

// NewRouter wires services and handlers onto a chi router.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	docs.Configure(cfg.API)

	tokens := auth.NewTokenService(cfg.Auth)
	authHandlers := auth.NewHandlers(auth.NewAuthService(deps.Users, tokens))
	categoryHandlers := categories.NewHandlers(categories.NewService(deps.Categories))
	taskHandlers := tasks.NewHandlers(tasks.NewService(deps.Tasks))
	requireAuth := auth.JWTMiddleware(tokens, deps.Users)

	r := chi.NewRouter()

	// chi requires all middleware before any routes.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(jsonRecoverer)
	if cfg.RateLimit.Enabled {
		r.Use(limiter.New(cfg.RateLimit).Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, r, apperror.NewNotFoundError("Resource not found", nil))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusMethodNotAllowed, apperror.ErrorResponse{Error: "Method not allowed"})
	})

	r.Get("/health", handleHealth)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			authHandlers.RegisterRoutes(r, requireAuth)
		})
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Route("/categories", categoryHandlers.RegisterRoutes)
			r.Route("/tasks", taskHandlers.RegisterRoutes)
			r.Get("/stats", taskHandlers.HandleStats)
		})
	})

	return r
}

// jsonRecoverer turns a handler panic into the usual JSON 500 body.
func jsonRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				log.Printf("Panic: %+v", rvr)
				respond.Error(w, r, apperror.NewInternalError("internal server error", nil))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// handleHealth godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} server.HealthResponse
// @Router /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, HealthResponse{Status: "healthy", Service: ServiceName})
}
