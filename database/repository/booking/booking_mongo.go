package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"metro/database/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

const defaultListLimit = 200

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a new instance of BookingRepository using MongoDB.
func NewMongoBookingRepo(db *mongo.Database) (BookingRepository, error) {
	repo := &MongoBookingRepo{coll: db.Collection("bookings")}
	if err := repo.ensureIndexes(); err != nil {
		return nil, fmt.Errorf("booking repository: %w", err)
	}
	return repo, nil
}

// newContext creates a context with the given timeout.
func newContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return repository.WithTimeout(ctx, timeout)
}
