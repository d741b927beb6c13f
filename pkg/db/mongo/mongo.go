package mongo

import (
	"context"
	"errors"
	"time"

	"hotelbooking/pkg/client"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotReady is returned while the shared store connection is still being established.
var ErrNotReady = errors.New("mongo connection not ready")

// CollectionProvider resolves a collection lazily from the shared client, so
// repositories can be built before the connection exists.
type CollectionProvider struct {
	client   *client.Client
	database string
	name     string
}

func NewCollectionProvider(c *client.Client, database, name string) *CollectionProvider {
	return &CollectionProvider{
		client:   c,
		database: database,
		name:     name,
	}
}

func (p *CollectionProvider) Ready() bool {
	return p.client.Ready()
}

func (p *CollectionProvider) Collection() (*mongo.Collection, error) {
	mc := p.client.Mongo()
	if mc == nil {
		return nil, ErrNotReady
	}
	return mc.Database(p.database).Collection(p.name), nil
}

// WithTimeout bounds ctx by timeout, keeping an earlier deadline when the caller
// already has one.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
