package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Config holds the options used when connecting to a MongoDB instance
type Config struct {
	URI                    string
	Database               string
	AppName                string
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
}

// Client owns the MongoDB client and the selected database handle.
// It is safe for concurrent use.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// Connect creates a MongoDB client for cfg.URI and selects cfg.Database.
// The driver dials lazily, so an unreachable server does not make Connect
// fail; use Ping to verify connectivity.
func Connect(ctx context.Context, cfg *Config, logger *zap.Logger) (*Client, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.AppName != "" {
		opts.SetAppName(cfg.AppName)
	}
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}
	if cfg.ServerSelectionTimeout > 0 {
		opts.SetServerSelectionTimeout(cfg.ServerSelectionTimeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	logger.Info("mongodb client created",
		zap.String("database", cfg.Database),
		zap.Strings("hosts", opts.Hosts))

	return &Client{
		client: client,
		db:     client.Database(cfg.Database),
		logger: logger,
	}, nil
}

// Database returns the selected database handle
func (c *Client) Database() *mongo.Database {
	return c.db
}

// Name returns the selected database name
func (c *Client) Name() string {
	return c.db.Name()
}

// Ping runs the ping command against the selected database
func (c *Client) Ping(ctx context.Context) error {
	if err := c.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return nil
}

// Close disconnects the client and releases its connection pool
func (c *Client) Close(ctx context.Context) error {
	c.logger.Info("closing mongodb client")

	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	return nil
}
