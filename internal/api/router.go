package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nurlyy/customer_data/internal/api/handlers"
	mw "github.com/nurlyy/customer_data/internal/api/middleware"
	"github.com/nurlyy/customer_data/pkg/config"
	"github.com/nurlyy/customer_data/pkg/logger"
)

// Server is the HTTP server of the customer API
type Server struct {
	router          chi.Router
	logger          logger.Logger
	config          *config.Config
	baseHandler     handlers.BaseHandler
	customerHandler *handlers.CustomerHandler
	rateLimiter     *mw.RateLimiter
	httpServer      *http.Server
}

// NewServer creates a new API server. rateLimiter may be nil.
func NewServer(config *config.Config, logger logger.Logger, customerHandler *handlers.CustomerHandler, rateLimiter *mw.RateLimiter) *Server {
	server := &Server{
		router:          chi.NewRouter(),
		logger:          logger,
		config:          config,
		baseHandler:     handlers.NewBaseHandler(logger),
		customerHandler: customerHandler,
		rateLimiter:     rateLimiter,
	}

	server.setupRoutes()
	server.httpServer = &http.Server{
		Addr:         ":" + config.HTTP.Port,
		Handler:      server.router,
		ReadTimeout:  config.HTTP.ReadTimeout,
		WriteTimeout: config.HTTP.WriteTimeout,
		IdleTimeout:  config.HTTP.IdleTimeout,
	}

	return server
}

func (s *Server) setupRoutes() {
	loggingMiddleware := mw.NewLoggingMiddleware(s.logger)

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(loggingMiddleware.LogRequest)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.config.HTTP.RequestTimeout))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", mw.RequestIDHeader},
		ExposedHeaders: []string{mw.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:         300,
	}))

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.baseHandler.RespondWithError(w, r, http.StatusNotFound, "Resource not found")
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.baseHandler.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		s.baseHandler.Respond(w, r, http.StatusOK, map[string]string{"status": "OK"})
	})

	s.router.Route(s.config.HTTP.BasePath+"/api", func(r chi.Router) {
		if s.rateLimiter != nil {
			r.Use(s.rateLimiter.Limit)
		}
		r.Get("/customers", s.customerHandler.ListCustomers)
	})
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start runs the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.logger.Info("Starting API server", map[string]interface{}{
		"port":      s.config.HTTP.Port,
		"base_path": s.config.HTTP.BasePath,
	})

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	return s.httpServer.Shutdown(ctx)
}
