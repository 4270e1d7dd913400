// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/address-guard/internal/errors"
	"github.com/address-guard/internal/logging"
	"github.com/address-guard/internal/service"
	"github.com/address-guard/internal/store"
)

// Server represents the HTTP API server.
type Server struct {
	router      *mux.Router
	httpServer  *http.Server
	engine      *service.Engine
	rateLimiter *RateLimiter
	config      *ServerConfig
	logger      *logging.Logger
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	// Per-client rate limit
	RequestsPerMinute int
	Burst             int
	ClientIdleTTL     time.Duration
}

// DefaultServerConfig returns timeouts suitable for a local service
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:              "0.0.0.0",
		Port:              "8080",
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ShutdownTimeout:   15 * time.Second,
		RequestsPerMinute: 120,
		Burst:             20,
		ClientIdleTTL:     5 * time.Minute,
	}
}

// NewServer creates a new API server instance.
func NewServer(config *ServerConfig, engine *service.Engine, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	s := &Server{
		router: mux.NewRouter(),
		engine: engine,
		config: config,
		logger: logger.WithField("component", "api"),
	}

	s.setupRouter()

	return s
}

// Handler returns the root handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	s.rateLimiter = NewRateLimiter(s.config.RequestsPerMinute, s.config.Burst)

	// Order matters: logging sees the final status, recovery wraps handlers
	s.router.Use(LoggingMiddleware(s.logger))
	s.router.Use(MetricsMiddleware)
	s.router.Use(RecoveryMiddleware(s.logger))
	s.router.Use(CORSMiddleware)
	s.router.Use(RateLimitMiddleware(s.rateLimiter))
	s.router.Use(CompressionMiddleware)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()

	// Analysis endpoints
	api.HandleFunc("/analyze", s.handleAnalyze).Methods("POST")
	api.HandleFunc("/sequence", s.handleNextSequence).Methods("POST")
	api.HandleFunc("/diff", s.handleDiff).Methods("POST")
	api.HandleFunc("/classify/{address}", s.handleClassify).Methods("GET")
	api.HandleFunc("/unlock", s.handleUnlock).Methods("POST")

	// Trust list and history
	api.HandleFunc("/trust", s.handleListTrust).Methods("GET")
	api.HandleFunc("/trust/{address}", s.handleSetTrust).Methods("PUT")
	api.HandleFunc("/trust/{address}", s.handleUnsetTrust).Methods("DELETE")
	api.HandleFunc("/history", s.handleHistory).Methods("GET")

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondCategorized(w, apperrors.NewNotFoundError("route", redactPath(r.URL.Path)))
	})

	// Preflight requests only need a matched route so the CORS middleware
	// runs. Matching on a func rather than Methods keeps other methods on
	// unknown paths at 404 instead of 405.
	s.router.PathPrefix("/").MatcherFunc(func(r *http.Request, _ *mux.RouteMatch) bool {
		return r.Method == http.MethodOptions
	}).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

// handleHealth re-verifies the digest primitive and reports 503 once
// hashing is blocked
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.VerifyHashing(r.Context()); err != nil {
		unavailable := apperrors.NewServiceUnavailableError("hashing")
		unavailable.Cause = err
		unavailable.Details["reason"] = apperrors.Categorize(err).Code
		respondCategorized(w, unavailable)
		return
	}

	resp := map[string]string{
		"status":  "healthy",
		"service": "address-guard",
		"backend": string(s.engine.Store().Backend().Kind()),
	}
	if bb, ok := s.engine.Store().Backend().(*store.BreakerBackend); ok {
		resp["storeCircuit"] = string(bb.Breaker().State())
	}
	respondJSON(w, http.StatusOK, resp)
}

// Start starts the HTTP server and the rate limiter's idle-client sweep.
func (s *Server) Start(ctx context.Context) error {
	go s.rateLimiter.CleanupLoop(ctx, s.config.ClientIdleTTL)

	s.logger.Infof("Starting API server on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server...")
	return s.httpServer.Shutdown(ctx)
}
