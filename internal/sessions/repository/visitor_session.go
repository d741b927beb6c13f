package repository

import (
	"context"
	"fmt"
	"time"

	"hotelbooking/pkg/config"
	mongodb "hotelbooking/pkg/db/mongo"
	"hotelbooking/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName     = "visitor_sessions"
	SessionIDIndexName = "visitor_session_id"
)

func SessionIDIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: "sessionId", Value: 1}, {Key: "timestamp", Value: 1}},
		Options: options.Index().SetName(SessionIDIndexName),
	}
}

type VisitorSessionRepository interface {
	Ready() bool
	Create(ctx context.Context, session *model.VisitorSession) error
	EnsureIndexes(ctx context.Context) error
}

type mongoVisitorSessionRepository struct {
	collection   *mongodb.CollectionProvider
	writeTimeout time.Duration
}

func NewMongoVisitorSessionRepository(cfg *config.Config) VisitorSessionRepository {
	return &mongoVisitorSessionRepository{
		collection:   mongodb.NewCollectionProvider(cfg.Client, cfg.MongoDatabaseName, CollectionName),
		writeTimeout: cfg.WriteTimeout,
	}
}

func (r *mongoVisitorSessionRepository) Ready() bool {
	return r.collection.Ready()
}

func (r *mongoVisitorSessionRepository) Create(ctx context.Context, session *model.VisitorSession) error {
	coll, err := r.collection.Collection()
	if err != nil {
		return err
	}

	ctx, cancel := mongodb.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	result, err := coll.InsertOne(ctx, session)
	if err != nil {
		return fmt.Errorf("failed to log visitor session: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		session.ID = oid.Hex()
	}
	return nil
}

func (r *mongoVisitorSessionRepository) EnsureIndexes(ctx context.Context) error {
	coll, err := r.collection.Collection()
	if err != nil {
		return err
	}

	ctx, cancel := mongodb.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	if _, err := coll.Indexes().CreateOne(ctx, SessionIDIndex()); err != nil {
		return fmt.Errorf("failed to create %s index: %w", SessionIDIndexName, err)
	}
	return nil
}
