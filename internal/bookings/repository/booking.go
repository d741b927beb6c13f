package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "hotelbooking/internal/bookings/errors"
	"hotelbooking/pkg/config"
	mongodb "hotelbooking/pkg/db/mongo"
	"hotelbooking/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "bookings"
	DedupIndexName = "booking_dedup_key"
)

// DedupIndex is the unique index on the five fields that identify a booking.
func DedupIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys: bson.D{
			{Key: "guest_name", Value: 1},
			{Key: "contact", Value: 1},
			{Key: "check_in", Value: 1},
			{Key: "check_out", Value: 1},
			{Key: "room_type", Value: 1},
		},
		Options: options.Index().SetName(DedupIndexName).SetUnique(true),
	}
}

type BookingRepository interface {
	Ready() bool
	FindAll(ctx context.Context) ([]*model.Booking, error)
	FindDuplicate(ctx context.Context, booking *model.Booking) (*model.Booking, error)
	Create(ctx context.Context, booking *model.Booking) error
	EnsureIndexes(ctx context.Context) error
}

type mongoBookingRepository struct {
	collection   *mongodb.CollectionProvider
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	return &mongoBookingRepository{
		collection:   mongodb.NewCollectionProvider(cfg.Client, cfg.MongoDatabaseName, CollectionName),
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
	}
}

func (r *mongoBookingRepository) Ready() bool {
	return r.collection.Ready()
}

// FindAll returns every booking in insertion order.
func (r *mongoBookingRepository) FindAll(ctx context.Context) ([]*model.Booking, error) {
	coll, err := r.collection.Collection()
	if err != nil {
		return nil, err
	}

	ctx, cancel := mongodb.WithTimeout(ctx, r.readTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}})

	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := make([]*model.Booking, 0)
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) FindDuplicate(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	coll, err := r.collection.Collection()
	if err != nil {
		return nil, err
	}

	ctx, cancel := mongodb.WithTimeout(ctx, r.readTimeout)
	defer cancel()

	var existing model.Booking
	err = coll.FindOne(ctx, dedupFilter(booking)).Decode(&existing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to check duplicate booking: %w", err)
	}

	return &existing, nil
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	coll, err := r.collection.Collection()
	if err != nil {
		return err
	}

	ctx, cancel := mongodb.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	result, err := coll.InsertOne(ctx, booking)
	if err != nil {
		if mongodb.IsDuplicateKey(err) {
			return bookingserrors.ErrDuplicate
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) EnsureIndexes(ctx context.Context) error {
	coll, err := r.collection.Collection()
	if err != nil {
		return err
	}

	ctx, cancel := mongodb.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	if _, err := coll.Indexes().CreateOne(ctx, DedupIndex()); err != nil {
		return fmt.Errorf("failed to create %s index: %w", DedupIndexName, err)
	}
	return nil
}

func dedupFilter(b *model.Booking) bson.M {
	return bson.M{
		"guest_name": b.GuestName,
		"contact":    b.Contact,
		"check_in":   b.CheckIn,
		"check_out":  b.CheckOut,
		"room_type":  b.RoomType,
	}
}
