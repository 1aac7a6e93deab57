package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/aescanero/booking-api/internal/application/health"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DatabaseChecker reports database connectivity
type DatabaseChecker interface {
	Check(ctx context.Context) *health.Status
}

// RequestRecorder records served requests
type RequestRecorder interface {
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
}

// Server represents the HTTP API server
type Server struct {
	router   *gin.Engine
	server   *http.Server
	database DatabaseChecker
	logger   *zap.Logger

	prefix      string
	environment string
	version     string
}

// Config holds HTTP server configuration
type Config struct {
	Addr        string
	APIPrefix   string
	Environment string
	Version     string

	AllowOrigins []string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration

	Database       DatabaseChecker
	Metrics        RequestRecorder
	MetricsHandler http.Handler
	Logger         *zap.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(recovery(cfg.Logger))
	router.Use(requestID())
	router.Use(corsMiddleware(cfg.AllowOrigins))
	router.Use(requestLogger(cfg.Logger))
	if cfg.Metrics != nil {
		router.Use(requestMetrics(cfg.Metrics))
	}

	s := &Server{
		router:      router,
		database:    cfg.Database,
		logger:      cfg.Logger,
		prefix:      cfg.APIPrefix,
		environment: cfg.Environment,
		version:     cfg.Version,
	}

	s.setupRoutes(cfg.MetricsHandler)

	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	return s
}

// setupRoutes configures API routes
func (s *Server) setupRoutes(metrics http.Handler) {
	if metrics != nil {
		s.router.GET("/metrics", gin.WrapH(metrics))
	}

	api := s.router.Group(s.prefix)
	{
		api.GET("/health", s.handleHealth)
		api.GET("/status", s.handleStatus)
		api.GET("/ready", s.handleReady)

		// Documentation
		api.GET("/openapi.json", s.handleOpenAPI)
		api.GET("/docs", s.handleSwaggerUI)
		api.GET("/redoc", s.handleReDoc)
	}

	s.router.NoRoute(s.handleNotFound)
	s.router.NoMethod(s.handleMethodNotAllowed)
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and serves until Shutdown
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}

	return s.Serve(listener)
}

// Serve serves HTTP requests on listener until Shutdown
func (s *Server) Serve(listener net.Listener) error {
	s.logger.Info("starting HTTP server", zap.String("addr", listener.Addr().String()))

	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server shut down complete")
	return nil
}
