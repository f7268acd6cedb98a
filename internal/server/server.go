// Package server provides the HTTP server and routing for the market
// calendar engine.
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

	"marketline/internal/domain"
	"marketline/internal/modules/marketdata"
	"marketline/internal/modules/schedule"
	"marketline/internal/modules/sessions"
)

// MarketDataService is the gateway surface the HTTP layer consumes.
type MarketDataService interface {
	Snapshot() *schedule.Snapshot
	ResolveWindow(day domain.Date) (sessions.Window, bool)
	AnnotatedRecords(symbol string) ([]map[string]interface{}, bool)
	SymbolStatuses() []marketdata.SymbolStatus
	LatestPriceDate() *domain.Date
	Refresh(ctx context.Context) error
}

// Config holds server configuration
type Config struct {
	Log     zerolog.Logger
	Port    int
	DevMode bool
	Service MarketDataService
}

// Server represents the HTTP server
type Server struct {
	router   *chi.Mux
	server   *http.Server
	log      zerolog.Logger
	handlers *Handlers
	system   *SystemHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		log:      cfg.Log.With().Str("component", "server").Logger(),
		handlers: NewHandlers(cfg.Log, cfg.Service),
		system:   NewSystemHandlers(cfg.Log),
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.system.HandleLiveness)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.system.HandleHealth)

		r.Get("/schedule", s.handlers.HandleGetSchedule)
		r.Get("/market-time", s.handlers.HandleGetMarketTime)
		r.Get("/market-time/resolve", s.handlers.HandleResolveWindow)

		r.Get("/symbols", s.handlers.HandleGetSymbols)
		r.Get("/symbols/{symbol}/records", s.handlers.HandleGetRecords)

		r.Post("/refresh", s.handlers.HandleRefresh)
	})
}

// Router exposes the configured router, used by tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
