package client

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"hotelbooking/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotConnected = errors.New("mongo client not connected")

// Client holds the process-wide store connection. The handle is published only
// after a successful connect and ping, so Ready doubles as the readiness flag
// checked by every request.
type Client struct {
	mongo atomic.Pointer[mongo.Client]
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) SetMongo(ctx context.Context, log *logger.Logger, mongoURI string, mongoConnTimeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, mongoConnTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Info("Successfully connected to MongoDB")
	c.mongo.Store(client)
	return nil
}

// Mongo returns the connected client, or nil while the connection is not ready.
func (c *Client) Mongo() *mongo.Client {
	return c.mongo.Load()
}

func (c *Client) Ready() bool {
	return c.mongo.Load() != nil
}

func (c *Client) Ping(ctx context.Context) error {
	client := c.mongo.Load()
	if client == nil {
		return ErrNotConnected
	}
	return client.Ping(ctx, nil)
}

func (c *Client) GracefulShutdown(ctx context.Context, log *logger.Logger) {
	client := c.mongo.Swap(nil)
	if client == nil {
		return
	}
	if err := client.Disconnect(ctx); err != nil {
		log.Error("Failed to disconnect from MongoDB", "error", err)
		return
	}
	log.Info("Disconnected from MongoDB")
}
