package grpc

import (
	"context"
	"fmt"
	"net"

	"github.com/aescanero/booking-api/internal/application/health"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// DatabaseService is the health service name that follows database connectivity
const DatabaseService = "booking.Database"

// StatusSource publishes database health check results
type StatusSource interface {
	Subscribe(fn func(*health.Status))
	Last() *health.Status
}

// Server represents the gRPC health server
type Server struct {
	server   *grpc.Server
	listener net.Listener
	health   *grpchealth.Server
	logger   *zap.Logger
}

// Config holds gRPC server configuration
type Config struct {
	Addr   string
	Source StatusSource
	Logger *zap.Logger
}

// NewServer creates a new gRPC server serving the standard health service
func NewServer(cfg *Config) (*Server, error) {
	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to create listener: %w", err)
	}

	grpcServer := grpc.NewServer()
	healthServer := grpchealth.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	// The process itself is live as soon as it serves
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(DatabaseService, healthpb.HealthCheckResponse_UNKNOWN)

	s := &Server{
		server:   grpcServer,
		listener: listener,
		health:   healthServer,
		logger:   cfg.Logger,
	}

	if cfg.Source != nil {
		if last := cfg.Source.Last(); last != nil && last.Database != health.DatabaseUnknown {
			s.updateDatabase(last)
		}
		cfg.Source.Subscribe(s.updateDatabase)
	}

	return s, nil
}

// updateDatabase mirrors a database health check into the health service
func (s *Server) updateDatabase(status *health.Status) {
	serving := healthpb.HealthCheckResponse_NOT_SERVING
	if status.Healthy {
		serving = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(DatabaseService, serving)
}

// Addr returns the address the server listens on
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Start starts the gRPC server
func (s *Server) Start() error {
	s.logger.Info("starting gRPC server", zap.String("addr", s.listener.Addr().String()))

	if err := s.server.Serve(s.listener); err != nil {
		return fmt.Errorf("failed to serve gRPC: %w", err)
	}

	return nil
}

// Shutdown marks every service NOT_SERVING and stops the server, forcing
// the stop if ctx expires before in-flight calls finish.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down gRPC server")

	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.server.Stop()
		<-done
		return fmt.Errorf("gRPC graceful stop interrupted: %w", ctx.Err())
	}

	s.logger.Info("gRPC server shut down complete")
	return nil
}
