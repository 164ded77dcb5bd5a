// Package api provides the HTTP API server and handlers for the MyShelf admin UI.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/myshelfapp/myshelf-server/internal/config"
	"github.com/myshelfapp/myshelf-server/internal/http/response"
	"github.com/myshelfapp/myshelf-server/internal/ratelimit"
	"github.com/myshelfapp/myshelf-server/internal/service"
	"github.com/myshelfapp/myshelf-server/internal/sse"
	"github.com/myshelfapp/myshelf-server/internal/status"
	"github.com/myshelfapp/myshelf-server/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	cfg        *config.Config
	generation *service.Generation
	users      *service.Users
	tracker    *status.Tracker
	sseHandler *sse.Handler
	limiter    *ratelimit.KeyedRateLimiter
	validator  *validation.Validator
	router     *chi.Mux
	logger     *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg *config.Config, generation *service.Generation, users *service.Users, tracker *status.Tracker, sseHandler *sse.Handler, limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) *Server {
	s := &Server{
		cfg:        cfg,
		generation: generation,
		users:      users,
		tracker:    tracker,
		sseHandler: sseHandler,
		limiter:    limiter,
		validator:  validation.New(),
		router:     chi.NewRouter(),
		logger:     logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	// The admin dashboard is a plain browser page that may be served from a
	// different origin during development.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/upload", s.handleUpload)
		r.Get("/status", s.handleStatus)
		r.Get("/status/stream", s.sseHandler.ServeHTTP)
		r.Get("/users", s.handleListUsers)
		r.Post("/user/delete", s.handleDeleteUser)
		r.Post("/reset", s.handleReset)
	})

	// Generated profile pages.
	pages := http.StripPrefix("/pages/", http.FileServer(http.Dir(s.cfg.Data.PagesDir)))
	s.router.Handle("/pages/*", pages)
	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/pages/", http.StatusFound)
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
