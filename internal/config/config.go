package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// DotEnvFile is read as a fallback source for configuration values
const DotEnvFile = ".env"

// Config holds all configuration for the booking API
type Config struct {
	// Deployment environment tag, e.g. development or production
	Env string `env:"ENV,required,notEmpty"`

	// Server configuration
	HTTPHost  string `env:"HTTP_HOST"`
	HTTPPort  int    `env:"HTTP_PORT" envDefault:"8000"`
	GRPCPort  int    `env:"GRPC_PORT" envDefault:"0"`
	APIPrefix string `env:"API_PREFIX" envDefault:"/api"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`

	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envDefault:"*" envSeparator:","`

	// MongoDB configuration
	MongoDB MongoDBConfig

	// Database health checks
	Health HealthConfig

	// Timeouts
	Timeouts TimeoutConfig
}

// MongoDBConfig holds MongoDB connection configuration
type MongoDBConfig struct {
	URI    string `env:"MONGODB_URI,required,notEmpty"`
	DBName string `env:"MONGODB_DB_NAME,required,notEmpty"`

	ConnectTimeout         time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
	ServerSelectionTimeout time.Duration `env:"MONGODB_SERVER_SELECTION_TIMEOUT" envDefault:"5s"`

	// Fail startup instead of running degraded when the first ping fails
	RequireOnStartup bool `env:"MONGODB_REQUIRE_ON_STARTUP" envDefault:"false"`
}

// HealthConfig holds database health check configuration
type HealthConfig struct {
	Interval time.Duration `env:"HEALTH_CHECK_INTERVAL" envDefault:"30s"`
	Timeout  time.Duration `env:"HEALTH_CHECK_TIMEOUT" envDefault:"2s"`
}

// TimeoutConfig holds HTTP server and shutdown timeouts
type TimeoutConfig struct {
	ReadHeader time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"5s"`
	Read       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	Write      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	Idle       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	Shutdown   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Load reads configuration from the process environment, falling back to
// values found in DotEnvFile.
func Load() (*Config, error) {
	environ, err := readEnviron(os.Environ(), DotEnvFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", DotEnvFile, err)
	}

	return LoadFrom(environ)
}

// LoadFrom parses configuration from the given key/value set only.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.APIPrefix = strings.TrimRight(cfg.APIPrefix, "/")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// readEnviron merges KEY=VALUE pairs with the contents of the given dotenv
// files. Keys already present in osEnv are never overridden and missing
// files are skipped.
func readEnviron(osEnv []string, files ...string) (map[string]string, error) {
	environ := make(map[string]string, len(osEnv))
	for _, kv := range osEnv {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		environ[key] = value
	}

	for _, file := range files {
		values, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		for key, value := range values {
			if _, set := environ[key]; !set {
				environ[key] = value
			}
		}
	}

	return environ, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate server ports
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.GRPCPort < 0 || c.GRPCPort > 65535 {
		return fmt.Errorf("invalid gRPC port: %d", c.GRPCPort)
	}
	if c.GRPCPort != 0 && c.GRPCPort == c.HTTPPort {
		return fmt.Errorf("gRPC port %d collides with HTTP port", c.GRPCPort)
	}

	if !strings.HasPrefix(c.APIPrefix, "/") {
		return fmt.Errorf("API prefix must start with '/': %q", c.APIPrefix)
	}

	// Validate MongoDB config
	if !strings.HasPrefix(c.MongoDB.URI, "mongodb://") && !strings.HasPrefix(c.MongoDB.URI, "mongodb+srv://") {
		return fmt.Errorf("MONGODB_URI must use the mongodb:// or mongodb+srv:// scheme")
	}
	if c.MongoDB.ConnectTimeout <= 0 || c.MongoDB.ServerSelectionTimeout <= 0 {
		return fmt.Errorf("MongoDB timeouts must be positive")
	}

	if c.Health.Interval <= 0 {
		return fmt.Errorf("health check interval must be positive")
	}
	if c.Health.Timeout <= 0 {
		return fmt.Errorf("health check timeout must be positive")
	}

	if len(c.CORSAllowOrigins) == 0 {
		return fmt.Errorf("at least one CORS origin is required")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// IsDevelopment reports whether the service runs in the development environment
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return net.JoinHostPort(c.HTTPHost, strconv.Itoa(c.HTTPPort))
}

// GetGRPCAddr returns the gRPC server address
func (c *Config) GetGRPCAddr() string {
	return net.JoinHostPort(c.HTTPHost, strconv.Itoa(c.GRPCPort))
}
