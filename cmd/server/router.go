package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dodo-tasks/backend/internal/auth"
	"github.com/dodo-tasks/backend/internal/middleware"
	"github.com/dodo-tasks/backend/internal/ratelimit"
	"github.com/dodo-tasks/backend/internal/respond"
	"github.com/dodo-tasks/backend/internal/todo"
)

// routes bundles everything the HTTP layer needs. exports is nil when
// object storage is not configured. trustProxy lets forwarded headers
// set the client address used for rate limiting.
type routes struct {
	logger      *slog.Logger
	out         *respond.Writer
	tokens      middleware.TokenVerifier
	limiter     ratelimit.Limiter
	auth        *auth.Handler
	todos       *todo.Handler
	exports     *todo.Exporter
	corsOrigins []string
	trustProxy  bool
}

func newRouter(rt routes) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if rt.trustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Logger(rt.logger))
	r.Use(middleware.Recover(rt.out))
	r.Use(chimw.SetHeader("X-Content-Type-Options", "nosniff"))
	r.Use(chimw.SetHeader("X-Frame-Options", "SAMEORIGIN"))
	r.Use(chimw.SetHeader("Referrer-Policy", "no-referrer"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.LimitBody(middleware.DefaultMaxBodyBytes))
	r.Use(middleware.RateLimit(rt.limiter, rt.out))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth routes (public)
	r.Post("/register", rt.auth.Register)
	r.Post("/login", rt.auth.Login)

	// Task routes (protected)
	r.Route("/todo", func(r chi.Router) {
		r.Use(middleware.RequireAuth(rt.tokens, rt.out))
		r.Post("/", rt.todos.Create)
		r.Get("/", rt.todos.List)
		r.Patch("/{id}", rt.todos.Update)
		r.Delete("/{id}", rt.todos.Delete)
		if rt.exports != nil {
			r.Post("/export", rt.exports.Create)
			r.Get("/export/{exportID}", rt.exports.Download)
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Message(w, http.StatusNotFound, "Route not found")
	})
	return r
}
