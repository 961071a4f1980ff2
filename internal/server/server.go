// Package server provides the HTTP server and routing for the platform.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/portsure/platform/internal/auth"
	"github.com/portsure/platform/internal/database"
	adminhandlers "github.com/portsure/platform/internal/modules/adminusers/handlers"
	alerthandlers "github.com/portsure/platform/internal/modules/alerts/handlers"
	compliancehandlers "github.com/portsure/platform/internal/modules/compliance/handlers"
	investorhandlers "github.com/portsure/platform/internal/modules/investors/handlers"
	portfoliohandlers "github.com/portsure/platform/internal/modules/portfolios/handlers"
	riskhandlers "github.com/portsure/platform/internal/modules/riskscores/handlers"
)

// Config holds server configuration
type Config struct {
	Log       zerolog.Logger
	Port      int
	DevMode   bool
	Tokens    *auth.Manager
	Databases []*database.DB

	InvestorHandlers   *investorhandlers.Handler
	AdminHandlers      *adminhandlers.Handler
	PortfolioHandlers  *portfoliohandlers.Handler
	ComplianceHandlers *compliancehandlers.Handler
	RiskHandlers       *riskhandlers.Handler
	AlertHandlers      *alerthandlers.Handler
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server with all module routes mounted
func New(cfg Config) *Server {
	s := &Server{
		router:         chi.NewRouter(),
		log:            cfg.Log.With().Str("component", "server").Logger(),
		systemHandlers: NewSystemHandlers(cfg.Databases, cfg.Log),
	}

	s.setupMiddleware(cfg)
	s.setupRoutes(cfg)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(cfg Config) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !cfg.DevMode {
		s.router.Use(middleware.Compress(5))
	}

	s.router.Use(AuthMiddleware(cfg.Tokens, cfg.Log))
}

// setupRoutes mounts health plus every module's routes under /api
func (s *Server) setupRoutes(cfg Config) {
	s.router.Get("/health", s.systemHandlers.HandleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/system/status", s.systemHandlers.HandleSystemStatus)

		cfg.InvestorHandlers.RegisterRoutes(r)
		cfg.AdminHandlers.RegisterRoutes(r)
		cfg.PortfolioHandlers.RegisterRoutes(r)
		cfg.ComplianceHandlers.RegisterRoutes(r)
		cfg.RiskHandlers.RegisterRoutes(r)
		cfg.AlertHandlers.RegisterRoutes(r)
	})
}

// Start begins serving requests. It blocks until the server stops.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Router exposes the mux, used by tests
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
