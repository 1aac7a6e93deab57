package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aescanero/booking-api/internal/application/health"
	"github.com/aescanero/booking-api/internal/config"
	"github.com/aescanero/booking-api/pkg/adapters/metrics/prometheus"
	"github.com/aescanero/booking-api/pkg/adapters/storage/mongodb"
	"github.com/aescanero/booking-api/pkg/api/grpc"
	"github.com/aescanero/booking-api/pkg/api/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is set by build flags
	Version   = "0.1.0"
	BuildTime = "unknown"
)

const appName = "booking-api"

func main() {
	// Load configuration; nothing listens until this succeeds
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg.LogLevel, cfg.IsDevelopment())
	defer logger.Sync()

	logger.Info("starting booking API",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("environment", cfg.Env))

	// Initialize MongoDB client
	ctx := context.Background()
	connectCtx, cancel := context.WithTimeout(ctx, cfg.MongoDB.ConnectTimeout)
	db, err := mongodb.Connect(connectCtx, &mongodb.Config{
		URI:                    cfg.MongoDB.URI,
		Database:               cfg.MongoDB.DBName,
		AppName:                appName,
		ConnectTimeout:         cfg.MongoDB.ConnectTimeout,
		ServerSelectionTimeout: cfg.MongoDB.ServerSelectionTimeout,
	}, logger)
	cancel()
	if err != nil {
		logger.Fatal("failed to create MongoDB client", zap.Error(err))
	}

	// Metrics
	registry := prom.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metricsCollector := prometheus.NewCollector(registry)

	// Database health
	monitor := health.NewMonitor(
		db,
		metricsCollector,
		cfg.Health.Interval,
		cfg.Health.Timeout,
		logger,
	)

	if status := monitor.Check(ctx); !status.Healthy {
		if cfg.MongoDB.RequireOnStartup {
			logger.Fatal("MongoDB unreachable at startup", zap.String("error", status.Error))
		}
		logger.Warn("MongoDB unreachable at startup, starting degraded",
			zap.String("error", status.Error))
	} else {
		logger.Info("connected to MongoDB", zap.String("database", db.Name()))
	}
	monitor.Start()

	// Bound only after the startup check; seeded from its result
	var grpcServer *grpc.Server
	if cfg.GRPCPort > 0 {
		grpcServer, err = grpc.NewServer(&grpc.Config{
			Addr:   cfg.GetGRPCAddr(),
			Source: monitor,
			Logger: logger,
		})
		if err != nil {
			logger.Fatal("failed to create gRPC server", zap.Error(err))
		}
	}

	// Initialize API servers
	httpServer := http.NewServer(&http.Config{
		Addr:              cfg.GetHTTPAddr(),
		APIPrefix:         cfg.APIPrefix,
		Environment:       cfg.Env,
		Version:           Version,
		AllowOrigins:      cfg.CORSAllowOrigins,
		ReadHeaderTimeout: cfg.Timeouts.ReadHeader,
		ReadTimeout:       cfg.Timeouts.Read,
		WriteTimeout:      cfg.Timeouts.Write,
		IdleTimeout:       cfg.Timeouts.Idle,
		Database:          monitor,
		Metrics:           metricsCollector,
		MetricsHandler:    promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Logger:            logger,
	})

	// Start servers
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	if grpcServer != nil {
		go func() {
			if err := grpcServer.Start(); err != nil {
				logger.Fatal("gRPC server failed", zap.Error(err))
			}
		}()
	}

	logger.Info("booking API started",
		zap.String("http_addr", cfg.GetHTTPAddr()),
		zap.String("api_prefix", cfg.APIPrefix),
		zap.Int("grpc_port", cfg.GRPCPort))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.Shutdown)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if grpcServer != nil {
		if err := grpcServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("gRPC server shutdown error", zap.Error(err))
		}
	}

	monitor.Stop()

	if err := db.Close(shutdownCtx); err != nil {
		logger.Error("MongoDB close error", zap.Error(err))
	}

	logger.Info("booking API shut down complete")
}

// initLogger initializes the logger based on log level
func initLogger(level string, development bool) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	if development {
		config = zap.NewDevelopmentConfig()
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger
}
